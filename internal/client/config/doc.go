// Package config loads runtime configuration for the StoreIt CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected with -c or -config, or $STOREIT_CONFIG.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-f string   path of the local session database
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds. Missing keys keep their defaults:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "session_file": "storeit-session.db",
//	  "request_timeout": "30s"
//	}
package config
