// Package config loads runtime configuration for the accounts CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the gRPC endpoint
//	-w string   base URL of the HTTP API
//	-r int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "http_endpoint_url": "http://127.0.0.1:44125",
//	  "request_timeout": "10s"
//	}
package config
