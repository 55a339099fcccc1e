package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/internal/http"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// CardsClient implements mtg.CardsClient.
type CardsClient struct {
	httpClient *http.Client
}

// NewCardsClient creates a new cards client.
func NewCardsClient(httpClient *http.Client) *CardsClient {
	return &CardsClient{
		httpClient: httpClient,
	}
}

// Get implements mtg.CardsClient.Get. id is either the card's id or its
// multiverse id.
func (c *CardsClient) Get(ctx context.Context, id string) (*mtg.Response[mtg.Card], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mtg.ErrCardIDRequired
	}

	path := constants.APIPathCards + "/" + url.PathEscape(id)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting card %s: %w", id, err)
	}

	var body struct {
		Card mtg.Card `json:"card"`
	}

	err = json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, fmt.Errorf("parsing card: %w", err)
	}

	return mtg.NewResponse(body.Card, resp.Headers), nil
}
