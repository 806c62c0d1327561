// Package client talks to the accounts server on behalf of the CLI.
//
// GRPCClient covers registration, login and profile reads over gRPC, with
// the access token injected by a unary interceptor once Login succeeds.
// Avatar uploads go through the HTTP API as multipart PUT /users/me, since
// the gRPC surface carries no binary payloads.
//
// # Error Handling
//
// Rejections come back as *common.FieldError (use errors.As); transport
// conditions as ErrUnavailable or ErrUnauthorized (use errors.Is).
package client
