package mtg

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// HTTPRequest represents an HTTP request that can be intercepted.
type HTTPRequest struct {
	Method   string
	Path     string
	Query    url.Values
	Headers  http.Header
	Metadata map[string]interface{}
}

// HTTPResponse represents an HTTP response that can be intercepted.
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Cached     bool
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *HTTPRequest) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *HTTPRequest) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common Interceptors

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *HTTPRequest) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"query":  req.Query.Encode(),
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
			"cached":      resp.Cached,
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *HTTPRequest) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// RateLimitInterceptor implements client-side rate limiting with a token
// bucket holding requestsPerSecond tokens.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	if requestsPerSecond <= 0 {
		return func(ctx context.Context, req *HTTPRequest) error { return nil }
	}

	var (
		mu       sync.Mutex
		tokens   = float64(requestsPerSecond)
		capacity = float64(requestsPerSecond)
		last     = time.Now()
	)

	return func(ctx context.Context, req *HTTPRequest) error {
		for {
			mu.Lock()

			now := time.Now()
			tokens = min(capacity, tokens+now.Sub(last).Seconds()*capacity)
			last = now

			if tokens >= 1 {
				tokens--
				mu.Unlock()

				return nil
			}

			wait := time.Duration((1 - tokens) / capacity * float64(time.Second))
			mu.Unlock()

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()

				return ctx.Err()
			}
		}
	}
}

// RateLimitTracker remembers the most recent rate-limit counters reported
// by the API.
type RateLimitTracker struct {
	mu        sync.RWMutex
	limit     *uint32
	remaining *uint32
	updatedAt time.Time
}

// NewRateLimitTracker creates an empty tracker.
func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{}
}

// Observe records the counters carried by headers. Absent counters keep
// their previous value.
func (t *RateLimitTracker) Observe(headers http.Header) {
	meta, _ := ParseMeta(headers)

	if meta.RatelimitLimit == nil && meta.RatelimitRemaining == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if meta.RatelimitLimit != nil {
		t.limit = meta.RatelimitLimit
	}

	if meta.RatelimitRemaining != nil {
		t.remaining = meta.RatelimitRemaining
	}

	t.updatedAt = time.Now()
}

// Limit returns the last reported limit and whether one was seen.
func (t *RateLimitTracker) Limit() (uint32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.limit == nil {
		return 0, false
	}

	return *t.limit, true
}

// Remaining returns the last reported remaining budget and whether one was seen.
func (t *RateLimitTracker) Remaining() (uint32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.remaining == nil {
		return 0, false
	}

	return *t.remaining, true
}

// UpdatedAt returns when the counters last changed.
func (t *RateLimitTracker) UpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.updatedAt
}

// RateLimitTrackerInterceptor feeds every live response into tracker.
// Cached responses are skipped since their counters are stale.
func RateLimitTrackerInterceptor(tracker *RateLimitTracker) ResponseInterceptor {
	return func(ctx context.Context, req *HTTPRequest, resp *HTTPResponse) error {
		if resp.Cached || resp.Headers == nil {
			return nil
		}

		tracker.Observe(resp.Headers)

		return nil
	}
}
