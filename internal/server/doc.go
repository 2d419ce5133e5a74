// Package server wires and runs the application's transport servers.
//
// It provides orchestration for HTTP and gRPC server lifecycles: binding,
// serving, and graceful shutdown of all enabled transports once the run
// context is cancelled. Signal handling belongs to the caller.
package server
