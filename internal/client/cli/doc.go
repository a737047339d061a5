// Package cli provides the interactive StoreIt command-line client.
//
// It wires configuration, the local session database and the gRPC client,
// then runs a REPL over the file operations: upload, list, details, rename,
// share and delete. A session saved by login survives restarts until logout.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
