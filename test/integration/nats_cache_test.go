//go:build integration

package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// TestNATSKVCache round-trips entries through a JetStream KV bucket. It needs
// a NATS server with JetStream enabled at MTGIO_INTEGRATION_NATS.
func TestNATSKVCache(t *testing.T) {
	url := os.Getenv("MTGIO_INTEGRATION_NATS")
	if url == "" {
		t.Skip("MTGIO_INTEGRATION_NATS not set, skipping NATS cache test")
	}

	cache, err := mtg.NewNATSKVCache(&mtg.NATSKVConfig{
		URL:    url,
		Bucket: "mtgio-integration",
	})
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	ctx := context.Background()
	require.NoError(t, cache.Clear(ctx))

	key := "GET:/sets?name=Khans+of+Tarkir"
	headers := http.Header{mtg.HeaderTotalCount: []string{"1"}}

	err = cache.Set(ctx, key, &mtg.CacheEntry{
		Data:      []byte(`{"sets":[]}`),
		Headers:   headers,
		ExpiresAt: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	entry, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sets":[]}`, string(entry.Data))
	assert.Equal(t, "1", entry.Headers.Get(mtg.HeaderTotalCount))
	assert.True(t, cache.Has(ctx, key))

	err = cache.Set(ctx, "stale", &mtg.CacheEntry{
		Data:      []byte(`{}`),
		ExpiresAt: time.Now().Add(-time.Second),
	})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "stale")
	require.ErrorIs(t, err, mtg.ErrEntryExpired)

	require.NoError(t, cache.Delete(ctx, key))
	_, err = cache.Get(ctx, key)
	require.ErrorIs(t, err, mtg.ErrKeyNotFound)

	require.NoError(t, cache.Delete(ctx, key))
}
