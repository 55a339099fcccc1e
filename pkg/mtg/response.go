package mtg

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Metadata headers sent by the API alongside every payload.
const (
	HeaderPageSize           = "Page-Size"
	HeaderCount              = "Count"
	HeaderTotalCount         = "Total-Count"
	HeaderRatelimitLimit     = "Ratelimit-Limit"
	HeaderRatelimitRemaining = "Ratelimit-Remaining"
)

// MetaHeaders lists the metadata headers in the order ParseMeta reads them.
var MetaHeaders = []string{
	HeaderPageSize,
	HeaderCount,
	HeaderTotalCount,
	HeaderRatelimitLimit,
	HeaderRatelimitRemaining,
}

// Meta holds the pagination and rate-limit counters of a response. A nil
// field means the header was absent or unreadable.
type Meta struct {
	PageSize           *uint32 `json:"page_size,omitempty"           yaml:"page_size,omitempty"`
	Count              *uint32 `json:"count,omitempty"               yaml:"count,omitempty"`
	TotalCount         *uint32 `json:"total_count,omitempty"         yaml:"total_count,omitempty"`
	RatelimitLimit     *uint32 `json:"ratelimit_limit,omitempty"     yaml:"ratelimit_limit,omitempty"`
	RatelimitRemaining *uint32 `json:"ratelimit_remaining,omitempty" yaml:"ratelimit_remaining,omitempty"`
}

// TotalPages derives the page count from TotalCount and PageSize. It returns
// 0 when either is unknown or PageSize is 0.
func (m Meta) TotalPages() int {
	if m.TotalCount == nil || m.PageSize == nil || *m.PageSize == 0 {
		return 0
	}

	total := int(*m.TotalCount)
	size := int(*m.PageSize)

	return (total + size - 1) / size
}

// ParseMeta reads the metadata headers. A missing or malformed header leaves
// its field nil and contributes a *HeaderError to the returned error; the
// remaining fields are parsed regardless.
func ParseMeta(headers http.Header) (Meta, error) {
	var (
		meta Meta
		errs []error
	)

	targets := map[string]**uint32{
		HeaderPageSize:           &meta.PageSize,
		HeaderCount:              &meta.Count,
		HeaderTotalCount:         &meta.TotalCount,
		HeaderRatelimitLimit:     &meta.RatelimitLimit,
		HeaderRatelimitRemaining: &meta.RatelimitRemaining,
	}

	for _, name := range MetaHeaders {
		value, err := parseHeaderUint32(headers, name)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		*targets[name] = &value
	}

	return meta, errors.Join(errs...)
}

func parseHeaderUint32(headers http.Header, name string) (uint32, error) {
	raw := headers.Get(name)
	if raw == "" {
		return 0, &HeaderError{Header: name, Err: ErrMissingHeader}
	}

	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, &HeaderError{Header: name, Value: raw, Err: ErrMalformedHeaderValue}
	}

	return uint32(value), nil
}

// Response pairs a decoded payload with the metadata of the HTTP response it
// came from.
type Response[T any] struct {
	Meta `yaml:",inline"`

	Content T `json:"content" yaml:"content"`
}

// NewResponse wraps content with the metadata found in headers. Header
// problems never fail construction; use ParseMeta to inspect them.
func NewResponse[T any](content T, headers http.Header) *Response[T] {
	meta, _ := ParseMeta(headers)

	return &Response[T]{
		Meta:    meta,
		Content: content,
	}
}
