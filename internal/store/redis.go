// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/redis/go-redis/v9"
)

// maxCASRetries bounds optimistic retries of Update on every backend.
const maxCASRetries = 16

// redisStore is a Redis-backed [KeyValueStore]. Every key is stored under
// keyPrefix so several deployments can share one database.
type redisStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedisStore connects to the Redis instance described by cfg and verifies
// the connection with PING.
func NewRedisStore(ctx context.Context, cfg config.Redis, log *logger.Logger) (KeyValueStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Err(err).Str("func", "NewRedisStore").Msg("error connecting redis (ping)")
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.Info().Str("func", "NewRedisStore").Msg("connected to redis successfully")

	return newRedisStore(client, cfg.KeyPrefix, log), nil
}

func newRedisStore(client *redis.Client, keyPrefix string, log *logger.Logger) *redisStore {
	return &redisStore{client: client, keyPrefix: keyPrefix, logger: log}
}

func (s *redisStore) key(key string) string {
	return s.keyPrefix + key
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// SetIfAbsent uses SET NX GET (Redis >= 7.0): a nil reply means the key was
// absent and has just been written.
func (s *redisStore) SetIfAbsent(ctx context.Context, key string, value []byte) ([]byte, bool, error) {
	previous, err := s.client.SetArgs(ctx, s.key(key), value, redis.SetArgs{Mode: "NX", Get: true}).Result()
	if errors.Is(err, redis.Nil) {
		return value, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis set nx: %w", err)
	}
	return []byte(previous), false, nil
}

// Update runs fn inside a WATCH/MULTI transaction and retries when another
// client touched the key between GET and EXEC.
func (s *redisStore) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	fullKey := s.key(key)

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		var result []byte
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			current, err := tx.Get(ctx, fullKey).Bytes()
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("redis get: %w", err)
			}

			next, err := fn(current)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, fullKey, next, 0)
				return nil
			})
			if err != nil {
				return err
			}

			result = next
			return nil
		}, fullKey)

		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug().Str("func", "*redisStore.Update").Int("attempt", attempt).Msg("optimistic lock lost, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, ErrVersionConflict
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteIf compares and deletes inside WATCH/MULTI. A concurrent write to
// the key aborts the transaction, which means the value moved and nothing is
// deleted.
func (s *redisStore) DeleteIf(ctx context.Context, key string, expected []byte) (bool, error) {
	fullKey := s.key(key)

	deleted := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, fullKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}
		if !bytes.Equal(current, expected) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, fullKey)
			return nil
		})
		if err != nil {
			return err
		}

		deleted = true
		return nil
	}, fullKey)

	if errors.Is(err, redis.TxFailedErr) {
		s.logger.Debug().Str("func", "*redisStore.DeleteIf").Msg("value moved, keeping key")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Scan walks keys with SCAN MATCH. Keys removed between SCAN and GET are
// skipped.
func (s *redisStore) Scan(ctx context.Context, prefix string, fn ScanFunc) error {
	iter := s.client.Scan(ctx, 0, escapeGlob(s.key(prefix))+"*", 100).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()

		value, err := s.client.Get(ctx, fullKey).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}

		if err := fn(strings.TrimPrefix(fullKey, s.keyPrefix), value); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
