// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	runKeyValueStoreContract(t, func(t *testing.T) KeyValueStore {
		return NewMemoryStore()
	})
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'X'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[0] = 'Y'
	again, _ := kv.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_ScanHonoursContext(t *testing.T) {
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(context.Background(), "p:1", []byte("v")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := kv.Scan(ctx, "p:", func(string, []byte) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
