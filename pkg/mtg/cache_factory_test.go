package mtg_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

func TestCacheFactory_MemoryCache(t *testing.T) {
	t.Parallel()

	config := &mtg.CacheConfig{
		Type:   mtg.CacheTypeMemory,
		Memory: &mtg.MemoryCacheConfig{MaxSize: 100},
	}

	cache, err := mtg.NewCacheFromConfig(config)
	require.NoError(t, err)
	require.NotNil(t, cache)

	// Test basic operations
	ctx := context.Background()
	entry := &mtg.CacheEntry{
		Data:      []byte("test data"),
		ExpiresAt: time.Now().Add(1 * time.Hour),
		ETag:      "test-etag",
	}

	// Set
	err = cache.Set(ctx, "test-key", entry)
	require.NoError(t, err)

	// Get
	retrieved, err := cache.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)

	// Has
	assert.True(t, cache.Has(ctx, "test-key"))

	// Delete
	err = cache.Delete(ctx, "test-key")
	require.NoError(t, err)
	assert.False(t, cache.Has(ctx, "test-key"))
}

func TestCacheFactory_Defaults(t *testing.T) {
	t.Parallel()

	cache, err := mtg.NewCacheFromConfig(nil)
	require.NoError(t, err)
	assert.IsType(t, &mtg.MemoryCache{}, cache)

	cache, err = mtg.NewCacheFromConfig(&mtg.CacheConfig{})
	require.NoError(t, err)
	assert.IsType(t, &mtg.MemoryCache{}, cache)
}

func TestCacheFactory_NoOpCache(t *testing.T) {
	t.Parallel()

	cache, err := mtg.NewCacheFromConfig(&mtg.CacheConfig{Type: mtg.CacheTypeNone})
	require.NoError(t, err)
	require.NotNil(t, cache)

	ctx := context.Background()

	// All operations should succeed but do nothing
	require.NoError(t, cache.Set(ctx, "key", &mtg.CacheEntry{Data: []byte("data")}))

	_, err = cache.Get(ctx, "key")
	require.ErrorIs(t, err, mtg.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
	require.NoError(t, cache.Delete(ctx, "key"))
	require.NoError(t, cache.Clear(ctx))
}

func TestCacheFactory_Errors(t *testing.T) {
	t.Parallel()

	_, err := mtg.NewCacheFromConfig(&mtg.CacheConfig{Type: mtg.CacheTypeNATS})
	require.ErrorIs(t, err, mtg.ErrNATSConfigRequired)

	_, err = mtg.NewCacheFromConfig(&mtg.CacheConfig{Type: "redis"})
	require.ErrorIs(t, err, mtg.ErrUnsupportedCacheType)
	assert.Contains(t, err.Error(), "redis")

	_, err = mtg.NewNATSKVCache(nil)
	require.ErrorIs(t, err, mtg.ErrNATSConfigRequired)
}

func TestCacheBuilder(t *testing.T) {
	t.Parallel()

	builder := mtg.NewCacheBuilder().
		WithType(mtg.CacheTypeMemory).
		WithMemoryConfig(5).
		WithOptions(&mtg.CacheOptions{TTL: time.Minute, MaxSize: 5})

	config := builder.Config()
	assert.Equal(t, mtg.CacheTypeMemory, config.Type)
	assert.Equal(t, 5, config.Memory.MaxSize)
	assert.Equal(t, time.Minute, config.Options.TTL)

	cache, err := builder.Build()
	require.NoError(t, err)
	assert.IsType(t, &mtg.MemoryCache{}, cache)

	natsConfig := &mtg.NATSKVConfig{URL: "nats://127.0.0.1:4222", Bucket: "cards"}
	assert.Same(t, natsConfig, mtg.NewCacheBuilder().WithNATSConfig(natsConfig).Config().NATS)
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := mtg.NewMemoryCache(10)
	l2 := mtg.NewMemoryCache(10)
	chain := mtg.NewCacheChain(l1, l2)

	entry := &mtg.CacheEntry{Data: []byte("set"), ExpiresAt: time.Now().Add(time.Hour)}

	// Only L2 has it; a read promotes it into L1.
	require.NoError(t, l2.Set(ctx, "KTK", entry))
	assert.False(t, l1.Has(ctx, "KTK"))

	got, err := chain.Get(ctx, "KTK")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)
	assert.True(t, l1.Has(ctx, "KTK"))

	require.NoError(t, chain.Delete(ctx, "KTK"))
	assert.False(t, chain.Has(ctx, "KTK"))

	_, err = chain.Get(ctx, "KTK")
	require.ErrorIs(t, err, mtg.ErrKeyNotFoundInAnyCache)

	require.NoError(t, chain.Set(ctx, "FRF", entry))
	assert.True(t, l1.Has(ctx, "FRF"))
	assert.True(t, l2.Has(ctx, "FRF"))

	require.NoError(t, chain.Clear(ctx))
	assert.Equal(t, 0, l1.Len()+l2.Len())
}
