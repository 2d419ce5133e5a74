// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Repository stores values of type T as JSON under a fixed key prefix of a
// [KeyValueStore]. IDs are opaque to the repository; composite identifiers are
// built with [JoinKey].
type Repository[T any] struct {
	kv     KeyValueStore
	prefix string
}

// NewRepository returns a repository writing under prefix (e.g. "mall:").
func NewRepository[T any](kv KeyValueStore, prefix string) *Repository[T] {
	return &Repository[T]{kv: kv, prefix: prefix}
}

// JoinKey builds a composite identifier from parts separated by ':'.
func JoinKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// Prefix is the key prefix the repository writes under.
func (r *Repository[T]) Prefix() string {
	return r.prefix
}

func (r *Repository[T]) key(id string) string {
	return r.prefix + id
}

// Get loads the value stored under id or returns ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var value T

	raw, err := r.kv.Get(ctx, r.key(id))
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, fmt.Errorf("decode %s%s: %w", r.prefix, id, err)
	}
	return value, nil
}

// Put writes value under id unconditionally.
func (r *Repository[T]) Put(ctx context.Context, id string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s%s: %w", r.prefix, id, err)
	}
	return r.kv.Set(ctx, r.key(id), raw)
}

// GetOrCreate atomically stores value under id unless a value is already
// present. It returns the canonical stored value and whether this call
// created it.
func (r *Repository[T]) GetOrCreate(ctx context.Context, id string, value T) (T, bool, error) {
	var stored T

	raw, err := json.Marshal(value)
	if err != nil {
		return stored, false, fmt.Errorf("encode %s%s: %w", r.prefix, id, err)
	}

	current, created, err := r.kv.SetIfAbsent(ctx, r.key(id), raw)
	if err != nil {
		return stored, false, err
	}
	if created {
		return value, true, nil
	}

	if err := json.Unmarshal(current, &stored); err != nil {
		return stored, false, fmt.Errorf("decode %s%s: %w", r.prefix, id, err)
	}
	return stored, false, nil
}

// Create stores value under id and fails with ErrAlreadyExists when id is
// taken.
func (r *Repository[T]) Create(ctx context.Context, id string, value T) error {
	_, created, err := r.GetOrCreate(ctx, id, value)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyExists
	}
	return nil
}

// Update applies mutate to the stored value inside an atomic
// compare-and-swap. mutate may run more than once under contention and must
// therefore be free of side effects outside the value it receives.
func (r *Repository[T]) Update(ctx context.Context, id string, mutate func(value *T) error) (T, error) {
	var result T

	raw, err := r.kv.Update(ctx, r.key(id), func(current []byte) ([]byte, error) {
		var value T
		if err := json.Unmarshal(current, &value); err != nil {
			return nil, fmt.Errorf("decode %s%s: %w", r.prefix, id, err)
		}
		if err := mutate(&value); err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("decode %s%s: %w", r.prefix, id, err)
	}
	return result, nil
}

// Delete removes id; missing ids are ignored.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, r.key(id))
}

// DeleteIf removes id while its value satisfies stale. The removal is
// conditional on the exact bytes stale judged, so a value rewritten in
// between survives. It reports whether the record was removed.
func (r *Repository[T]) DeleteIf(ctx context.Context, id string, stale func(T) bool) (bool, error) {
	raw, err := r.kv.Get(ctx, r.key(id))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, fmt.Errorf("decode %s%s: %w", r.prefix, id, err)
	}
	if !stale(value) {
		return false, nil
	}

	return r.kv.DeleteIf(ctx, r.key(id), raw)
}

// Scan decodes and visits every value in the repository. Values that no
// longer decode as T are skipped.
func (r *Repository[T]) Scan(ctx context.Context, fn func(id string, value T) error) error {
	return r.kv.Scan(ctx, r.prefix, func(key string, raw []byte) error {
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil
		}
		return fn(strings.TrimPrefix(key, r.prefix), value)
	})
}
