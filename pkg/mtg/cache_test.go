package mtg_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := mtg.NewMemoryCache(10)
	ctx := context.Background()

	entry := &mtg.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      "abc123",
	}

	// Set entry
	err := cache.Set(ctx, "key1", entry)
	require.NoError(t, err)

	// Get entry
	retrieved, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
	assert.True(t, cache.Has(ctx, "key1"))

	// Missing key
	_, err = cache.Get(ctx, "missing")
	require.ErrorIs(t, err, mtg.ErrKeyNotFound)
}

func TestMemoryCache_Expiration(t *testing.T) {
	t.Parallel()

	cache := mtg.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "expired", &mtg.CacheEntry{
		Data:      []byte("old"),
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	assert.False(t, cache.Has(ctx, "expired"))

	_, err = cache.Get(ctx, "expired")
	require.ErrorIs(t, err, mtg.ErrEntryExpired)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_Eviction(t *testing.T) {
	t.Parallel()

	cache := mtg.NewMemoryCache(2)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set(ctx, key, &mtg.CacheEntry{Data: []byte(key)}))
	}

	assert.Equal(t, 2, cache.Len())
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))
	assert.True(t, cache.Has(ctx, "c"))

	// Overwriting does not evict.
	require.NoError(t, cache.Set(ctx, "c", &mtg.CacheEntry{Data: []byte("c2")}))
	assert.Equal(t, 2, cache.Len())
}

func TestMemoryCache_DeleteClearCleanup(t *testing.T) {
	t.Parallel()

	cache := mtg.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "live", &mtg.CacheEntry{ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, cache.Set(ctx, "dead", &mtg.CacheEntry{ExpiresAt: time.Now().Add(-time.Hour)}))

	cache.Cleanup()
	assert.Equal(t, 1, cache.Len())

	require.NoError(t, cache.Delete(ctx, "live"))
	assert.False(t, cache.Has(ctx, "live"))

	require.NoError(t, cache.Set(ctx, "again", &mtg.CacheEntry{}))
	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
}

func TestCacheManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := mtg.NewCacheManager(mtg.NewMemoryCache(10), &mtg.CacheOptions{TTL: time.Minute})

	key := manager.GetCacheKey(http.MethodGet, "/sets", url.Values{"name": []string{"Khans"}, "block": []string{"Khans"}})
	assert.Equal(t, "GET:/sets:block=Khans&name=Khans", key)
	assert.Equal(t, "GET:/types", manager.GetCacheKey(http.MethodGet, "/types", nil))

	_, err := manager.Get(ctx, key)
	require.Error(t, err)

	headers := http.Header{}
	headers.Set("ETag", "v1")
	headers.Set("Total-Count", "3")

	require.NoError(t, manager.Set(ctx, key, []byte(`{"sets":[]}`), headers, 0))

	entry, err := manager.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v1", entry.ETag)
	assert.Equal(t, "3", entry.Headers.Get("Total-Count"))
	assert.WithinDuration(t, time.Now().Add(time.Minute), entry.ExpiresAt, 5*time.Second)

	stats := manager.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.InDelta(t, 0.5, stats.GetHitRate(), 0.001)

	require.NoError(t, manager.Invalidate(ctx, key))
	_, err = manager.Get(ctx, key)
	require.Error(t, err)
}

func TestCacheManager_NilCacheDisables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := mtg.NewCacheManager(nil, nil)

	require.NoError(t, manager.Set(ctx, "k", []byte("v"), http.Header{}, 0))

	_, err := manager.Get(ctx, "k")
	require.ErrorIs(t, err, mtg.ErrCacheDisabled)
	assert.Zero(t, mtg.CacheStats{}.GetHitRate())
}
