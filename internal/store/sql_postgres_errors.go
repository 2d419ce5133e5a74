package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells sqlStore.Update whether a failed
// compare-and-swap on kv_records is worth another attempt.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// retryableKVCodes are the Postgres codes on which a kv_records CAS round is
// replayed from a fresh read. Anything else, constraint and syntax errors
// included, fails the update straight away.
var retryableKVCodes = map[string]struct{}{
	// the row version moved under a concurrent writer
	pgerrcode.SerializationFailure: {},
	pgerrcode.DeadlockDetected:     {},
	pgerrcode.TransactionRollback:  {},
	pgerrcode.LockNotAvailable:     {},

	// the pool handed out a connection that died mid round
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.CannotConnectNow:       {},
	pgerrcode.AdminShutdown:          {},
}

// PostgresErrorClassifier reads the SQLSTATE off pgx errors for the
// Postgres backed record store.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify unwraps err to a *pgconn.PgError. Driver agnostic errors such as
// context cancellation are never retried.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return NonRetryable
	}
	if _, ok := retryableKVCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}
