package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtghttp "github.com/fivetwenty-io/mtgio/internal/http"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

func fastRetry() mtghttp.Option {
	return mtghttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/sets", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.NotEmpty(t, request.Header.Get("User-Agent"))

			writer.Header().Set("Page-Size", "500")
			_, _ = writer.Write([]byte(`{"sets":[]}`))
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL + "/v1")

		resp, err := client.Get(context.Background(), "/sets", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "500", resp.Headers.Get("Page-Size"))
		assert.JSONEq(t, `{"sets":[]}`, string(resp.Body))
		assert.False(t, resp.Cached)
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/sets", request.URL.Path)
			assert.Equal(t, "Khans of Tarkir", request.URL.Query().Get("name"))
			assert.Equal(t, "2", request.URL.Query().Get("page"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/sets", url.Values{
			"name": []string{"Khans of Tarkir"},
			"page": []string{"2"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"status":404,"error":"Not Found"}`))
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/sets/nope", nil)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		respErr := &mtg.ResponseError{}
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, "Not Found", respErr.Message)
		assert.True(t, mtg.IsNotFound(err))
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL)

		resp, err := client.Do(context.Background(), &mtghttp.Request{
			Method:  http.MethodGet,
			Path:    "/sets",
			Headers: map[string]string{"X-Custom-Header": "custom-value"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("custom user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "deckbuilder/2.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL, mtghttp.WithUserAgent("deckbuilder/2.0"))

		_, err := client.Get(context.Background(), "/sets", nil)
		require.NoError(t, err)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Page-Size", "100")
			writer.Header().Set("Count", "100")
			writer.Header().Set("Total-Count", "500")
			writer.Header().Set("Ratelimit-Limit", "5000")
			writer.Header().Set("Ratelimit-Remaining", "4999")
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := mtghttp.NewClient(server.URL, mtghttp.WithLogger(logger), mtghttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/sets", nil)
		require.NoError(t, err)

		// Should have logged request and response
		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("warns on malformed metadata header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Total-Count", "lots")
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := mtghttp.NewClient(server.URL, mtghttp.WithLogger(logger))

		resp, err := client.Get(context.Background(), "/sets", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		require.Len(t, logger.logs, 1)
		assert.Equal(t, "warn", logger.logs[0]["level"])
		assert.Equal(t, "Malformed metadata header", logger.logs[0]["msg"])
	})

	t.Run("missing metadata headers stay silent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := mtghttp.NewClient(server.URL, mtghttp.WithLogger(logger))

		_, err := client.Get(context.Background(), "/types", nil)
		require.NoError(t, err)
		assert.Empty(t, logger.logs)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()

	t.Run("retries on 5xx errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL, fastRetry())

		resp, err := client.Get(context.Background(), "/sets", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL, fastRetry())

		resp, err := client.Get(context.Background(), "/sets", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL, fastRetry())

		resp, err := client.Get(context.Background(), "/sets", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load()) // Should not retry
	})

	t.Run("returns last response when retries are exhausted", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusServiceUnavailable)
			_, _ = writer.Write([]byte(`{"status":503,"error":"Service Unavailable"}`))
		}))
		defer server.Close()

		client := mtghttp.NewClient(server.URL, mtghttp.WithRetryConfig(1, time.Millisecond, 5*time.Millisecond))

		resp, err := client.Get(context.Background(), "/sets", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.True(t, mtg.IsServerError(err))
	})
}

func TestClient_Cache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		writer.Header().Set("Total-Count", "42")
		_, _ = writer.Write([]byte(`{"types":["Artifact"]}`))
	}))
	defer server.Close()

	manager := mtg.NewCacheManager(mtg.NewMemoryCache(10), nil)
	client := mtghttp.NewClient(server.URL, mtghttp.WithCache(manager, time.Minute))

	first, err := client.Get(context.Background(), "/types", nil)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := client.Get(context.Background(), "/types", nil)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, "42", second.Headers.Get("Total-Count"))

	assert.Equal(t, int32(1), hits.Load())

	stats := manager.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestClient_CacheSkipsErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	manager := mtg.NewCacheManager(mtg.NewMemoryCache(10), nil)
	client := mtghttp.NewClient(server.URL, mtghttp.WithCache(manager, time.Minute))

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "/sets/XXX", nil)
		require.Error(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int64(0), manager.GetStats().Sets)
}

var errBlocked = errors.New("blocked")

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	t.Run("request interceptor adds headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "en", request.Header.Get("Accept-Language"))
			writer.Header().Set("Ratelimit-Limit", "5000")
			writer.Header().Set("Ratelimit-Remaining", "4321")
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		tracker := mtg.NewRateLimitTracker()
		chain := mtg.NewInterceptorChain()
		chain.AddRequestInterceptor(mtg.HeaderInterceptor(map[string]string{"Accept-Language": "en"}))
		chain.AddResponseInterceptor(mtg.RateLimitTrackerInterceptor(tracker))

		client := mtghttp.NewClient(server.URL, mtghttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/sets", nil)
		require.NoError(t, err)

		remaining, ok := tracker.Remaining()
		require.True(t, ok)
		assert.Equal(t, uint32(4321), remaining)
	})

	t.Run("failing request interceptor aborts the call", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		chain := mtg.NewInterceptorChain()
		chain.AddRequestInterceptor(func(ctx context.Context, req *mtg.HTTPRequest) error {
			return errBlocked
		})

		client := mtghttp.NewClient(server.URL, mtghttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/sets", nil)
		require.ErrorIs(t, err, errBlocked)
		assert.Equal(t, int32(0), hits.Load())
	})
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := mtghttp.NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/sets", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
