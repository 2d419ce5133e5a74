// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKeyValueStoreContract exercises the behaviour every backend must share.
// newStore must return an empty store.
func runKeyValueStoreContract(t *testing.T, newStore func(t *testing.T) KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		kv := newStore(t)

		_, err := kv.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		kv := newStore(t)

		require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
		require.NoError(t, kv.Set(ctx, "k", []byte("v2")))
		got, err := kv.Get(ctx, "k")

		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)
	})

	t.Run("set if absent", func(t *testing.T) {
		kv := newStore(t)

		current, created, err := kv.SetIfAbsent(ctx, "k", []byte("first"))
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, []byte("first"), current)

		current, created, err = kv.SetIfAbsent(ctx, "k", []byte("second"))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, []byte("first"), current)
	})

	t.Run("concurrent set if absent has one winner", func(t *testing.T) {
		kv := newStore(t)
		const workers = 16

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
			seen    = make(map[string]struct{})
		)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				current, created, err := kv.SetIfAbsent(ctx, "race", []byte(strconv.Itoa(i)))
				assert.NoError(t, err)

				mu.Lock()
				defer mu.Unlock()
				if created {
					winners++
				}
				seen[string(current)] = struct{}{}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, winners)
		assert.Len(t, seen, 1)
	})

	t.Run("update missing", func(t *testing.T) {
		kv := newStore(t)

		_, err := kv.Update(ctx, "missing", func(b []byte) ([]byte, error) { return b, nil })

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update callback error aborts", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", []byte("0")))
		boom := errors.New("boom")

		_, err := kv.Update(ctx, "k", func([]byte) ([]byte, error) { return nil, boom })

		assert.ErrorIs(t, err, boom)
		got, _ := kv.Get(ctx, "k")
		assert.Equal(t, []byte("0"), got)
	})

	t.Run("concurrent updates lose nothing", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "counter", []byte("0")))
		const workers = 8

		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := kv.Update(ctx, "counter", func(b []byte) ([]byte, error) {
					n, err := strconv.Atoi(string(b))
					if err != nil {
						return nil, err
					}
					return []byte(strconv.Itoa(n + 1)), nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := kv.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(workers), string(got))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", []byte("v")))

		require.NoError(t, kv.Delete(ctx, "k"))
		require.NoError(t, kv.Delete(ctx, "k"))

		_, err := kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete if unchanged", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", []byte("stale")))

		deleted, err := kv.DeleteIf(ctx, "k", []byte("stale"))
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)

		deleted, err = kv.DeleteIf(ctx, "k", []byte("stale"))
		require.NoError(t, err)
		assert.False(t, deleted, "missing key")
	})

	t.Run("delete if unchanged keeps a rewritten value", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "k", []byte("stale")))
		require.NoError(t, kv.Set(ctx, "k", []byte("renewed")))

		deleted, err := kv.DeleteIf(ctx, "k", []byte("stale"))
		require.NoError(t, err)
		assert.False(t, deleted)

		got, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("renewed"), got)
	})

	t.Run("scan by prefix", func(t *testing.T) {
		kv := newStore(t)
		for i := range 3 {
			require.NoError(t, kv.Set(ctx, fmt.Sprintf("session:%d", i), []byte("s")))
		}
		require.NoError(t, kv.Set(ctx, "sessions_other", []byte("x")))
		require.NoError(t, kv.Set(ctx, "mall:a", []byte("m")))

		var keys []string
		err := kv.Scan(ctx, "session:", func(key string, value []byte) error {
			keys = append(keys, key)
			assert.Equal(t, []byte("s"), value)
			return nil
		})

		require.NoError(t, err)
		sort.Strings(keys)
		assert.Equal(t, []string{"session:0", "session:1", "session:2"}, keys)
	})

	t.Run("scan callback may delete", func(t *testing.T) {
		kv := newStore(t)
		require.NoError(t, kv.Set(ctx, "p:1", []byte("a")))
		require.NoError(t, kv.Set(ctx, "p:2", []byte("b")))

		err := kv.Scan(ctx, "p:", func(key string, _ []byte) error {
			return kv.Delete(ctx, key)
		})

		require.NoError(t, err)
		count := 0
		_ = kv.Scan(ctx, "p:", func(string, []byte) error { count++; return nil })
		assert.Zero(t, count)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(ctx))
	})
}
