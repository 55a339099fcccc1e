package mtg

import (
	"context"
	"time"
)

// SetsClient provides access to the sets endpoints.
type SetsClient interface {
	// List returns the sets matching filter. An empty filter lists every set.
	List(ctx context.Context, filter SetFilter, params *QueryParams) (*Response[[]Set], error)
	Get(ctx context.Context, code string) (*Response[Set], error)
	// Booster generates a randomised booster pack for the set.
	Booster(ctx context.Context, code string) (*Response[[]Card], error)
}

// CardsClient provides access to single cards.
type CardsClient interface {
	Get(ctx context.Context, id string) (*Response[Card], error)
}

// CatalogClient provides access to the string-list endpoints.
type CatalogClient interface {
	Types(ctx context.Context) (*Response[[]string], error)
	Subtypes(ctx context.Context) (*Response[[]string], error)
	Supertypes(ctx context.Context) (*Response[[]string], error)
	Formats(ctx context.Context) (*Response[[]string], error)
	Get(ctx context.Context, catalog Catalog) (*Response[[]string], error)
}

// Client is the entry point to every resource client.
type Client interface {
	Sets() SetsClient
	Cards() CardsClient
	Catalog() CatalogClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a mtg.Client.
//
// Per-request timeouts should generally be controlled via the context passed
// to client methods. HTTPTimeout caps every single attempt.
type Config struct {
	// APIEndpoint: base URL including the version path. mtgclient.New trims a
	// trailing slash, adds "https://" if no scheme is present and falls back
	// to the public endpoint when empty.
	APIEndpoint string

	// HTTPTimeout: timeout of a single HTTP attempt.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for 429, 5xx and connection errors.
	// If 0, the transport default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// RequestsPerSecond: client-side throttle. 0 disables it.
	RequestsPerSecond int

	// Cache: optional response cache for GET requests. Nil disables caching.
	Cache *CacheConfig
	// CacheTTL: lifetime of cached responses. Defaults to one hour.
	CacheTTL time.Duration

	// Interceptors run around every request, after the built-in ones.
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
}
