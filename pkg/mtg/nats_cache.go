package mtg

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATS KV defaults.
const (
	DefaultNATSBucket  = "mtgio-cache"
	DefaultNATSTimeout = 5 * time.Second
)

// NATSKVConfig configures the NATS JetStream key-value cache.
type NATSKVConfig struct {
	// URL of the NATS server, e.g. "nats://127.0.0.1:4222". Ignored when Conn is set.
	URL string
	// Conn reuses an existing connection; the cache will not close it.
	Conn *nats.Conn
	// Bucket is the KV bucket name, created if missing.
	Bucket string
	// TTL is the bucket-level maximum age of entries. 0 keeps entries until
	// their own ExpiresAt.
	TTL time.Duration
	// Timeout bounds connecting and bucket setup.
	Timeout time.Duration
}

// NATSKVCache stores entries in a NATS JetStream key-value bucket so several
// processes can share one cache.
type NATSKVCache struct {
	conn    *nats.Conn
	ownConn bool
	kv      jetstream.KeyValue
}

// NewNATSKVCache connects to NATS and opens (or creates) the bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultNATSTimeout
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = DefaultNATSBucket
	}

	conn := config.Conn
	ownConn := false

	if conn == nil {
		url := config.URL
		if url == "" {
			url = nats.DefaultURL
		}

		var err error

		conn, err = nats.Connect(url, nats.Name("mtgio-cache"), nats.Timeout(timeout))
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		ownConn = true
	}

	js, err := jetstream.New(conn)
	if err != nil {
		closeIfOwned(conn, ownConn)

		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "mtgio API response cache",
		TTL:         config.TTL,
	})
	if err != nil {
		closeIfOwned(conn, ownConn)

		return nil, fmt.Errorf("opening KV bucket %q: %w", bucket, err)
	}

	return &NATSKVCache{
		conn:    conn,
		ownConn: ownConn,
		kv:      kv,
	}, nil
}

// Get returns the entry stored under key.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(ctx, natsKey(key))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}

		return nil, fmt.Errorf("reading %s from NATS KV: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrEntryExpired, key)
	}

	return &entry, nil
}

// Set stores entry under key.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	_, err = c.kv.Put(ctx, natsKey(key), data)
	if err != nil {
		return fmt.Errorf("writing %s to NATS KV: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(ctx, natsKey(key))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("deleting %s from NATS KV: %w", key, err)
	}

	return nil
}

// Clear purges every key in the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	lister, err := c.kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil
		}

		return fmt.Errorf("listing NATS KV keys: %w", err)
	}

	defer func() { _ = lister.Stop() }()

	for key := range lister.Keys() {
		err := c.kv.Purge(ctx, key)
		if err != nil {
			return fmt.Errorf("purging %s from NATS KV: %w", key, err)
		}
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close releases the connection if the cache opened it.
func (c *NATSKVCache) Close() {
	closeIfOwned(c.conn, c.ownConn)
}

// natsKey maps an arbitrary cache key onto the KV key alphabet.
func natsKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

func closeIfOwned(conn *nats.Conn, owned bool) {
	if owned && conn != nil {
		conn.Close()
	}
}
