package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIDService_GetOrCreateUID_Idempotent(t *testing.T) {
	// Arrange
	h := newHarness(t)
	ctx := context.Background()

	// Act
	first, isNew, err := h.uids.GetOrCreateUID(ctx, "shop-a", "user-42")
	require.NoError(t, err)
	second, again, err := h.uids.GetOrCreateUID(ctx, "shop-a", "user-42")
	require.NoError(t, err)

	// Assert
	assert.True(t, isNew)
	assert.False(t, again)
	assert.Equal(t, first.InternalUID, second.InternalUID)
	assert.True(t, uidBelongsTo(first.InternalUID, "shop-a"))
	assert.True(t, first.IsActive)
	assert.Equal(t, t0, first.CreatedAt)
}

func TestUIDService_GetOrCreateUID_ScopedByMall(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a, _, err := h.uids.GetOrCreateUID(ctx, "shop-a", "user-42")
	require.NoError(t, err)
	b, isNew, err := h.uids.GetOrCreateUID(ctx, "shop-b", "user-42")
	require.NoError(t, err)

	assert.True(t, isNew)
	assert.NotEqual(t, a.InternalUID, b.InternalUID)
}

func TestUIDService_GetOrCreateUID_ConcurrentFirstCalls(t *testing.T) {
	// Arrange
	h := newHarness(t)
	ctx := context.Background()
	const workers = 32

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		uids    = make(map[string]struct{})
		created int
	)

	// Act
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mapping, isNew, err := h.uids.GetOrCreateUID(ctx, "shop-a", "racer")
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			uids[mapping.InternalUID] = struct{}{}
			if isNew {
				created++
			}
		}()
	}
	wg.Wait()

	// Assert
	assert.Len(t, uids, 1, "every caller must observe the same canonical uid")
	assert.Equal(t, 1, created)
}

func TestUIDBelongsTo(t *testing.T) {
	uid := newUID("shop-a")

	assert.True(t, uidBelongsTo(uid, "shop-a"))
	assert.False(t, uidBelongsTo(uid, "shop"), "a mall whose id prefixes another must not match")
	assert.False(t, uidBelongsTo(uid, "shop-b"))
	assert.False(t, uidBelongsTo("shop-a-not-a-uuid", "shop-a"))
	assert.False(t, uidBelongsTo("", "shop-a"))
}
