// Package workers provides the broker's background workers and a Workers
// aggregate that runs them together.
//
// Workers are maintenance only: the storage janitor and the store health
// probe. Protocol correctness never depends on them.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled. A returned error stops every worker
// started by the same [Workers.Run] call, so transient failures are logged
// and swallowed by the worker itself.
type Worker interface {
	Run(ctx context.Context) error
}

// Purger removes records that can no longer be used.
type Purger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusReporter publishes the serving status derived from the health probe.
type StatusReporter interface {
	SetServing(serving bool)
}
