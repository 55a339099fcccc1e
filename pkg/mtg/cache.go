package mtg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Cache errors.
var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrEntryExpired = errors.New("entry expired")
)

// Cache is a pluggable store for API responses.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is a cached response body and the headers it arrived with.
type CacheEntry struct {
	Data      []byte      `json:"data"`
	Headers   http.Header `json:"headers,omitempty"`
	ExpiresAt time.Time   `json:"expires_at"`
	ETag      string      `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// CacheOptions are applied to any backend.
type CacheOptions struct {
	// TTL is the lifetime of new entries.
	TTL time.Duration
	// MaxSize bounds the number of entries where the backend supports it.
	MaxSize int
}

// DefaultCacheOptions returns default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:     DefaultCacheTTL,
		MaxSize: DefaultCacheSize,
	}
}

// Cache defaults.
const (
	DefaultCacheTTL  = time.Hour
	DefaultCacheSize = 1000
)

// MemoryCache is a bounded in-process cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	order   []string
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry stored under key.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	if entry.Expired() {
		_ = c.Delete(ctx, key)

		return nil, fmt.Errorf("%w: %s", ErrEntryExpired, key)
	}

	return entry, nil
}

// Set stores entry under key, evicting the oldest entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}

		c.order = append(c.order, key)
	}

	c.entries[key] = entry

	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)
	c.order = nil

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired()
}

// Cleanup drops expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			c.remove(key)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *MemoryCache) remove(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}

	delete(c.entries, key)

	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)

			break
		}
	}
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// GetHitRate returns hits / (hits + misses), or 0 without lookups.
func (s CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager wraps a Cache with key derivation, TTL handling and stats.
type CacheManager struct {
	cache   Cache
	options *CacheOptions

	mu    sync.Mutex
	stats CacheStats
}

// NewCacheManager creates a manager. A nil cache disables caching and nil
// options fall back to DefaultCacheOptions.
func NewCacheManager(cache Cache, options *CacheOptions) *CacheManager {
	if cache == nil {
		cache = NewNoOpCache()
	}

	if options == nil {
		options = DefaultCacheOptions()
	}

	return &CacheManager{
		cache:   cache,
		options: options,
	}
}

// GetCacheKey derives the key for a request. Query values are encoded in
// sorted key order so equivalent requests share an entry.
func (m *CacheManager) GetCacheKey(method, path string, query url.Values) string {
	if len(query) == 0 {
		return method + ":" + path
	}

	return method + ":" + path + ":" + query.Encode()
}

// Get returns the live entry for key and records a hit or a miss.
func (m *CacheManager) Get(ctx context.Context, key string) (*CacheEntry, error) {
	entry, err := m.cache.Get(ctx, key)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.stats.Misses++

		return nil, err
	}

	m.stats.Hits++

	return entry, nil
}

// Set stores data and headers under key. A ttl of 0 uses the configured TTL.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, headers http.Header, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.options.TTL
	}

	entry := &CacheEntry{
		Data:      data,
		Headers:   headers.Clone(),
		ExpiresAt: time.Now().Add(ttl),
		ETag:      headers.Get("ETag"),
	}

	err := m.cache.Set(ctx, key, entry)
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	m.mu.Lock()
	m.stats.Sets++
	m.mu.Unlock()

	return nil
}

// Invalidate removes key.
func (m *CacheManager) Invalidate(ctx context.Context, key string) error {
	return m.cache.Delete(ctx, key)
}

// GetStats returns a snapshot of the counters.
func (m *CacheManager) GetStats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stats
}
