// Package client talks to the StoreIt server.
//
// GRPCClient manages the connection, injects the access token through a
// unary interceptor, transparently refreshes an expired access token once
// per call, and maps gRPC status codes to the sentinel errors of this
// package (ErrUnauthorized, ErrUnavailable, ErrNotFound, ErrInvalidArgument,
// ErrAlreadyExists, ErrDataLoss).
//
// Rotated tokens are reported through the callback registered with OnTokens
// so the caller can persist them.
package client
