package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
)

// UpdateFunc receives the current value of a key and returns its replacement.
// Returning an error aborts the update and leaves the stored value untouched;
// the error is passed back to the caller of [KeyValueStore.Update] as is.
type UpdateFunc func(current []byte) ([]byte, error)

// ScanFunc is called once per key found by [KeyValueStore.Scan].
// Returning an error stops the iteration.
type ScanFunc func(key string, value []byte) error

// KeyValueStore is the keyed record store every broker component persists
// through. Implementations guarantee read-your-writes on a single key and
// make SetIfAbsent and Update atomic with respect to concurrent callers.
type KeyValueStore interface {
	// Get returns the value stored at key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value unconditionally.
	Set(ctx context.Context, key string, value []byte) error

	// SetIfAbsent writes value only when key does not exist yet. It returns
	// the value held by the key after the call and whether this call created
	// it.
	SetIfAbsent(ctx context.Context, key string, value []byte) (current []byte, created bool, err error)

	// Update applies fn as an atomic compare-and-swap on key. It returns the
	// stored result, ErrNotFound when the key is absent, or
	// ErrVersionConflict when contention outlasts the retry budget.
	Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteIf removes key only while it still holds exactly expected and
	// reports whether it did. A missing or rewritten key is left alone.
	DeleteIf(ctx context.Context, key string, expected []byte) (bool, error)

	// Scan visits every key starting with prefix in unspecified order.
	Scan(ctx context.Context, prefix string, fn ScanFunc) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// ErrorClassificator decides whether a failed database operation is worth
// repeating.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
