package client

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/fivetwenty-io/mtgio/internal/http"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// CatalogClient implements mtg.CatalogClient.
type CatalogClient struct {
	httpClient *http.Client
}

// NewCatalogClient creates a new catalog client.
func NewCatalogClient(httpClient *http.Client) *CatalogClient {
	return &CatalogClient{
		httpClient: httpClient,
	}
}

// Types implements mtg.CatalogClient.Types.
func (c *CatalogClient) Types(ctx context.Context) (*mtg.Response[[]string], error) {
	return c.Get(ctx, mtg.CatalogTypes)
}

// Subtypes implements mtg.CatalogClient.Subtypes.
func (c *CatalogClient) Subtypes(ctx context.Context) (*mtg.Response[[]string], error) {
	return c.Get(ctx, mtg.CatalogSubtypes)
}

// Supertypes implements mtg.CatalogClient.Supertypes.
func (c *CatalogClient) Supertypes(ctx context.Context) (*mtg.Response[[]string], error) {
	return c.Get(ctx, mtg.CatalogSupertypes)
}

// Formats implements mtg.CatalogClient.Formats.
func (c *CatalogClient) Formats(ctx context.Context) (*mtg.Response[[]string], error) {
	return c.Get(ctx, mtg.CatalogFormats)
}

// Get implements mtg.CatalogClient.Get. Each catalog lives at /<name> and
// answers {"<name>": [...]}.
func (c *CatalogClient) Get(ctx context.Context, catalog mtg.Catalog) (*mtg.Response[[]string], error) {
	if !slices.Contains(mtg.Catalogs, catalog) {
		return nil, fmt.Errorf("%w: %q", mtg.ErrUnknownCatalog, catalog)
	}

	resp, err := c.httpClient.Get(ctx, "/"+string(catalog), nil)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", catalog, err)
	}

	var body map[string][]string

	err = json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", catalog, err)
	}

	return mtg.NewResponse(body[string(catalog)], resp.Headers), nil
}
