package store

import "errors"

// Sentinel errors returned by [KeyValueStore] implementations and typed
// repositories. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when the requested key does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned by [Repository.Create] when the key is
	// already taken.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrVersionConflict is returned when an optimistic compare-and-swap
	// keeps losing against concurrent writers after all retries.
	ErrVersionConflict = errors.New("record version conflict")

	// ErrUnknownBackend is returned by [NewStorages] for an unsupported
	// backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Low-level database operation errors. These are returned (or wrapped) by the
// SQL backend when a statement fails before any record logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE or
	// DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan record row")
)
