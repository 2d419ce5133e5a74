// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
)

// sqlStore is the [KeyValueStore] over the kv_records table. It serves both
// PostgreSQL and SQLite; dialect differences live in [DB].
type sqlStore struct {
	db  *DB
	now func() time.Time
}

// NewSQLStore builds a [KeyValueStore] on an already migrated [DB].
func NewSQLStore(db *DB) KeyValueStore {
	return &sqlStore{db: db, now: time.Now}
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, _, err := s.get(ctx, key)
	return value, err
}

func (s *sqlStore) get(ctx context.Context, key string) ([]byte, int64, error) {
	query, args, err := s.db.selectRecordQuery(key)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		value   string
		version int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return []byte(value), version, nil
}

func (s *sqlStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := s.db.upsertRecordQuery(key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// SetIfAbsent relies on the primary key: ON CONFLICT DO NOTHING affects zero
// rows when another writer got there first, and the winner's value is read
// back.
func (s *sqlStore) SetIfAbsent(ctx context.Context, key string, value []byte) ([]byte, bool, error) {
	query, args, err := s.db.insertIfAbsentQuery(key, value, s.now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 1 {
		return value, true, nil
	}

	current, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// Update reads (value, version), applies fn and writes back guarded by the
// version it read. Zero affected rows or a retryable driver error start the
// next attempt.
func (s *sqlStore) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	log := logger.FromContext(ctx)

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		current, version, err := s.get(ctx, key)
		if err != nil {
			return nil, err
		}

		next, err := fn(current)
		if err != nil {
			return nil, err
		}

		query, args, err := s.db.casUpdateQuery(key, next, version, s.now().UTC())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if s.db.errorClassificator.Classify(err) == Retryable {
				log.Warn().Err(err).Str("func", "*sqlStore.Update").Int("attempt", attempt).Msg("retryable database error")
				continue
			}
			return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if affected == 1 {
			return next, nil
		}

		log.Debug().Str("func", "*sqlStore.Update").Int("attempt", attempt).Msg("version moved, retrying")
	}

	return nil, ErrVersionConflict
}

func (s *sqlStore) Delete(ctx context.Context, key string) error {
	query, args, err := s.db.deleteRecordQuery(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// DeleteIf deletes the row only while record_value still equals expected,
// so the comparison and the removal are one statement.
func (s *sqlStore) DeleteIf(ctx context.Context, key string, expected []byte) (bool, error) {
	query, args, err := s.db.deleteUnchangedQuery(key, expected)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return affected == 1, nil
}

// Scan loads the matching rows before calling fn so callbacks may write to
// the store without holding an open cursor.
func (s *sqlStore) Scan(ctx context.Context, prefix string, fn ScanFunc) error {
	query, args, err := s.db.scanRecordsQuery(prefix)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	type record struct {
		key   string
		value string
	}
	var records []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.key, &r.value); err != nil {
			rows.Close()
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	rows.Close()

	for _, r := range records {
		if err := fn(r.key, []byte(r.value)); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
