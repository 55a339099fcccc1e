package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/mtgio/internal/http"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

// NewTestClient creates a new test client with the given base URL.
func NewTestClient(baseURL string) *Client {
	return NewWithHTTPClient(internalhttp.NewClient(baseURL), nil, nil, nil)
}

// metaHeadersFixture returns the metadata headers the API sends with list replies.
func metaHeadersFixture() map[string]string {
	return map[string]string{
		"Page-Size":           "500",
		"Count":               "1",
		"Total-Count":         "1",
		"Ratelimit-Limit":     "5000",
		"Ratelimit-Remaining": "4999",
	}
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Headers      map[string]string
	Response     interface{}
	WantErr      bool
	ErrMessage   string
	Check        func(t *testing.T, result *mtg.Response[TResponse])
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*mtg.Response[TResponse], error),
) {
	t.Helper()

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.EscapedPath())
				assert.Equal(t, "GET", request.Method)

				for key, value := range testCase.Headers {
					writer.Header().Set(key, value)
				}

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client, err := New(context.Background(), &mtg.Config{APIEndpoint: server.URL})
			require.NoError(t, err)

			getFn := getFunc(client)
			result, err := getFn(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}

// notFoundBody is the error payload the API sends for unknown resources.
func notFoundBody() map[string]interface{} {
	return map[string]interface{}{
		"status": 404,
		"error":  "Not Found",
	}
}
