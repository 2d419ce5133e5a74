package server

import "context"

// Server defines the lifecycle contract of the broker's transports.
//
// Run binds every enabled transport, serves until ctx is cancelled or one
// transport fails, then shuts all of them down gracefully.
type Server interface {
	// Run serves requests and blocks until the server stops. It returns nil
	// after a shutdown requested through ctx.
	Run(ctx context.Context) error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
