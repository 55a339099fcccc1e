// Package http is the transport used by the resource clients: a retrying
// HTTP client that runs interceptors, consults the response cache and turns
// non-2xx replies into *mtg.ResponseError values.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// Request describes a call relative to the client's base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	// NoCache bypasses the response cache in both directions.
	NoCache bool
}

// Response is the raw result of a call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Cached     bool
}

// Client is a retrying HTTP client bound to one API endpoint.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	logger       mtg.Logger
	debug        bool
	userAgent    string
	interceptors *mtg.InterceptorChain
	cache        *mtg.CacheManager
	cacheTTL     time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output and retry diagnostics.
func WithLogger(logger mtg.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets the retry budget and backoff bounds.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the timeout of a single attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithInterceptors installs a request/response interceptor chain.
func WithInterceptors(chain *mtg.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache caches successful GET responses for ttl (0 uses the manager's default).
func WithCache(manager *mtg.CacheManager, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = manager
		c.cacheTTL = ttl
	}
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	// Hand the final response back instead of a "giving up" error so the
	// caller sees the API's status and body.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		userAgent:    constants.DefaultUserAgent,
		interceptors: mtg.NewInterceptorChain(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Do performs req. For non-2xx replies both the response and a
// *mtg.ResponseError are returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	intercepted := &mtg.HTTPRequest{
		Method:  req.Method,
		Path:    req.Path,
		Query:   req.Query,
		Headers: make(http.Header),
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	cacheKey := ""
	if c.cache != nil && req.Method == http.MethodGet && !req.NoCache {
		cacheKey = c.cache.GetCacheKey(req.Method, req.Path, req.Query)

		entry, err := c.cache.Get(ctx, cacheKey)
		if err == nil {
			resp := &Response{
				StatusCode: http.StatusOK,
				Headers:    entry.Headers.Clone(),
				Body:       entry.Data,
				Cached:     true,
			}

			return resp, c.finish(ctx, intercepted, resp, nil)
		}
	}

	resp, err := c.send(ctx, intercepted)
	if err != nil {
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, &mtg.HTTPResponse{Error: err})

		return nil, err
	}

	c.checkMetadata(intercepted, resp)

	if resp.StatusCode >= http.StatusBadRequest {
		respErr := mtg.NewResponseError(resp.StatusCode, resp.Body)

		return resp, c.finish(ctx, intercepted, resp, respErr)
	}

	if cacheKey != "" {
		err := c.cache.Set(ctx, cacheKey, resp.Body, resp.Headers, c.cacheTTL)
		if err != nil && c.logger != nil {
			c.logger.Warn("Failed to cache response", map[string]interface{}{
				"path":  req.Path,
				"error": err.Error(),
			})
		}
	}

	return resp, c.finish(ctx, intercepted, resp, nil)
}

func (c *Client) send(ctx context.Context, req *mtg.HTTPRequest) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	for key, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"size":     len(body),
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// checkMetadata reports metadata headers that are present but unreadable.
// Missing headers are normal for some endpoints and stay silent.
func (c *Client) checkMetadata(req *mtg.HTTPRequest, resp *Response) {
	if c.logger == nil {
		return
	}

	_, err := mtg.ParseMeta(resp.Headers)
	if err == nil || !errors.Is(err, mtg.ErrMalformedHeaderValue) {
		return
	}

	c.logger.Warn("Malformed metadata header", map[string]interface{}{
		"path":  req.Path,
		"error": err.Error(),
	})
}

func (c *Client) finish(ctx context.Context, req *mtg.HTTPRequest, resp *Response, respErr error) error {
	err := c.interceptors.ExecuteResponseInterceptors(ctx, req, &mtg.HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Cached:     resp.Cached,
		Error:      respErr,
	})
	if respErr != nil {
		return respErr
	}

	return err
}

// leveledLogger adapts mtg.Logger to retryablehttp.LeveledLogger. Per-attempt
// debug and info chatter is dropped; HTTP Request/HTTP Response cover it.
type leveledLogger struct {
	logger mtg.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return out
}
