package client

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/internal/http"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// SetsClient implements mtg.SetsClient.
type SetsClient struct {
	httpClient *http.Client
}

// NewSetsClient creates a new sets client.
func NewSetsClient(httpClient *http.Client) *SetsClient {
	return &SetsClient{
		httpClient: httpClient,
	}
}

// List implements mtg.SetsClient.List.
func (c *SetsClient) List(ctx context.Context, filter mtg.SetFilter, params *mtg.QueryParams) (*mtg.Response[[]mtg.Set], error) {
	queryParams := filter.Values()

	if params != nil {
		for key, values := range params.ToValues() {
			queryParams[key] = values
		}
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathSets, queryParams)
	if err != nil {
		return nil, fmt.Errorf("listing sets: %w", err)
	}

	var body struct {
		Sets []mtg.Set `json:"sets"`
	}

	err = json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, fmt.Errorf("parsing sets list: %w", err)
	}

	return mtg.NewResponse(body.Sets, resp.Headers), nil
}

// Get implements mtg.SetsClient.Get.
func (c *SetsClient) Get(ctx context.Context, code string) (*mtg.Response[mtg.Set], error) {
	path, err := setPath(code)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting set %s: %w", code, err)
	}

	var body struct {
		Set mtg.Set `json:"set"`
	}

	err = json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, fmt.Errorf("parsing set: %w", err)
	}

	return mtg.NewResponse(body.Set, resp.Headers), nil
}

// Booster implements mtg.SetsClient.Booster.
func (c *SetsClient) Booster(ctx context.Context, code string) (*mtg.Response[[]mtg.Card], error) {
	path, err := setPath(code)
	if err != nil {
		return nil, err
	}

	// Every booster is freshly randomised, so bypass the response cache.
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method:  nethttp.MethodGet,
		Path:    path + "/booster",
		NoCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("generating booster for %s: %w", code, err)
	}

	var body struct {
		Cards []mtg.Card `json:"cards"`
	}

	err = json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, fmt.Errorf("parsing booster: %w", err)
	}

	return mtg.NewResponse(body.Cards, resp.Headers), nil
}

func setPath(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", mtg.ErrSetCodeRequired
	}

	return constants.APIPathSets + "/" + url.PathEscape(code), nil
}
