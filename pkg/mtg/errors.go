package mtg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Metadata header errors.
var (
	ErrMissingHeader        = errors.New("missing header")
	ErrMalformedHeaderValue = errors.New("malformed header value")
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrAPIEndpointRequired   = errors.New("API endpoint is required")
	ErrSetCodeRequired       = errors.New("set code is required")
	ErrCardIDRequired        = errors.New("card id is required")
	ErrFilterBuilderConsumed = errors.New("builder already built")
	ErrNoMoreItems           = errors.New("no more items")
	ErrUnknownCatalog        = errors.New("unknown catalog")
)

// HeaderError describes a metadata header that could not be read.
type HeaderError struct {
	Header string
	Value  string
	Err    error
}

// Error implements the error interface.
func (e *HeaderError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Header, e.Err)
	}

	return fmt.Sprintf("%s: %v %q", e.Header, e.Err, e.Value)
}

// Unwrap returns the underlying sentinel.
func (e *HeaderError) Unwrap() error {
	return e.Err
}

// ResponseError represents a non-2xx reply from the API.
type ResponseError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Body       string `json:"-"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	if msg == "" {
		msg = "unknown error"
	}

	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
}

// NewResponseError builds a ResponseError from a status code and raw body.
// Bodies of the form {"status": ..., "error": "..."} fill Message; anything
// else is kept verbatim in Body.
func NewResponseError(statusCode int, body []byte) *ResponseError {
	respErr := &ResponseError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var payload struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		respErr.Message = payload.Error
	}

	return respErr
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsRateLimited checks if the API rejected the request for exceeding the rate
// limit. The API answers 403 once the hourly allowance is spent; 429 is
// accepted as well.
func IsRateLimited(err error) bool {
	return hasStatus(err, http.StatusTooManyRequests) || hasStatus(err, http.StatusForbidden)
}

// IsServerError checks if the error came from a 5xx response.
func IsServerError(err error) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode >= http.StatusInternalServerError
	}

	return false
}

func hasStatus(err error, status int) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == status
	}

	return false
}
