package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/internal/http"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// Client implements the mtg.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     mtg.Logger
	rateLimit  *mtg.RateLimitTracker
	cache      mtg.Cache

	// Resource clients
	sets    mtg.SetsClient
	cards   mtg.CardsClient
	catalog mtg.CatalogClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *mtg.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// createInterceptorChain installs the built-in interceptors followed by the
// ones supplied in config.
func createInterceptorChain(config *mtg.Config, tracker *mtg.RateLimitTracker) *mtg.InterceptorChain {
	chain := mtg.NewInterceptorChain()

	if config.RequestsPerSecond > 0 {
		chain.AddRequestInterceptor(mtg.RateLimitInterceptor(config.RequestsPerSecond))
	}

	if config.Logger != nil && config.Debug {
		chain.AddRequestInterceptor(mtg.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(mtg.LoggingResponseInterceptor(config.Logger))
	}

	chain.AddResponseInterceptor(mtg.RateLimitTrackerInterceptor(tracker))

	for _, interceptor := range config.RequestInterceptors {
		chain.AddRequestInterceptor(interceptor)
	}

	for _, interceptor := range config.ResponseInterceptors {
		chain.AddResponseInterceptor(interceptor)
	}

	return chain
}

// New creates a new API client. The endpoint must already be normalised.
func New(ctx context.Context, config *mtg.Config) (*Client, error) {
	if config == nil {
		return nil, mtg.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, mtg.ErrAPIEndpointRequired
	}

	tracker := mtg.NewRateLimitTracker()

	httpOpts := createHTTPClientOptions(config)
	httpOpts = append(httpOpts, http.WithInterceptors(createInterceptorChain(config, tracker)))

	var cache mtg.Cache

	if config.Cache != nil {
		var err error

		cache, err = mtg.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}

		ttl := config.CacheTTL
		if ttl <= 0 && config.Cache.Options != nil {
			ttl = config.Cache.Options.TTL
		}

		httpOpts = append(httpOpts, http.WithCache(mtg.NewCacheManager(cache, config.Cache.Options), ttl))
	}

	return NewWithHTTPClient(http.NewClient(config.APIEndpoint, httpOpts...), config.Logger, tracker, cache), nil
}

// NewWithHTTPClient assembles a client around an existing transport.
// tracker may be nil; cache is only kept so Close can release it.
func NewWithHTTPClient(httpClient *http.Client, logger mtg.Logger, tracker *mtg.RateLimitTracker, cache mtg.Cache) *Client {
	if tracker == nil {
		tracker = mtg.NewRateLimitTracker()
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    httpClient.BaseURL(),
		logger:     logger,
		rateLimit:  tracker,
		cache:      cache,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

// Sets implements mtg.Client.Sets.
func (c *Client) Sets() mtg.SetsClient {
	return c.sets
}

// Cards implements mtg.Client.Cards.
func (c *Client) Cards() mtg.CardsClient {
	return c.cards
}

// Catalog implements mtg.Client.Catalog.
func (c *Client) Catalog() mtg.CatalogClient {
	return c.catalog
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RateLimit returns the tracker fed by every live response.
func (c *Client) RateLimit() *mtg.RateLimitTracker {
	return c.rateLimit
}

// Close releases the cache connection, if any.
func (c *Client) Close() error {
	if closer, ok := c.cache.(interface{ Close() }); ok {
		closer.Close()
	}

	return nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.sets = NewSetsClient(c.httpClient)
	c.cards = NewCardsClient(c.httpClient)
	c.catalog = NewCatalogClient(c.httpClient)
}

