package mtgclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/mtgio/internal/client"
	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// New creates a new API client. The returned client also implements
// io.Closer, which releases a NATS cache connection when one was opened.
func New(ctx context.Context, config *mtg.Config) (mtg.Client, error) {
	if config == nil {
		return nil, mtg.ErrConfigRequired
	}

	normalized := *config
	normalized.APIEndpoint = NormalizeEndpoint(config.APIEndpoint)

	// Use the internal client implementation
	client, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// NewWithEndpoint creates a client for endpoint with default settings.
func NewWithEndpoint(ctx context.Context, endpoint string) (mtg.Client, error) {
	return New(ctx, &mtg.Config{APIEndpoint: endpoint})
}

// NewWithCache creates a client for endpoint that caches GET responses.
func NewWithCache(ctx context.Context, endpoint string, cache *mtg.CacheConfig) (mtg.Client, error) {
	return New(ctx, &mtg.Config{
		APIEndpoint: endpoint,
		Cache:       cache,
	})
}

// NormalizeEndpoint trims whitespace and a trailing slash, adds "https://"
// when no scheme is given and falls back to the public endpoint when empty.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return constants.DefaultAPIEndpoint
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
