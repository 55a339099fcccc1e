package mtg

import (
	"context"
	"fmt"
)

// PageFetcher fetches a single 1-based page.
type PageFetcher[T any] func(ctx context.Context, page int) (*Response[[]T], error)

// PaginationOptions controls multi-page fetches.
type PaginationOptions struct {
	// MaxPages stops after this many pages. 0 means no limit.
	MaxPages int
}

// DefaultPaginationOptions returns default pagination options.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{}
}

// hasMorePages decides from the metadata of page whether another page
// exists. Without usable counters a non-empty page is assumed to have a
// successor; the following empty page then ends the walk.
func hasMorePages(meta Meta, page, received int) bool {
	if received == 0 {
		return false
	}

	if totalPages := meta.TotalPages(); totalPages > 0 {
		return page < totalPages
	}

	if meta.PageSize != nil && *meta.PageSize > 0 {
		return received >= int(*meta.PageSize)
	}

	return true
}

// PageIterator walks items across pages, fetching lazily.
type PageIterator[T any] struct {
	ctx   context.Context
	fetch PageFetcher[T]

	buffer []T
	index  int
	page   int
	more   bool
	meta   Meta
	err    error
}

// NewPageIterator creates an iterator starting at page 1.
func NewPageIterator[T any](ctx context.Context, fetch PageFetcher[T]) *PageIterator[T] {
	return &PageIterator[T]{
		ctx:   ctx,
		fetch: fetch,
		more:  true,
	}
}

// HasNext reports whether Next will return an item or an error.
func (it *PageIterator[T]) HasNext() bool {
	if it.err != nil {
		return true
	}

	if it.index < len(it.buffer) {
		return true
	}

	if !it.more {
		return false
	}

	it.page++

	resp, err := it.fetch(it.ctx, it.page)
	if err != nil {
		it.err = fmt.Errorf("fetching page %d: %w", it.page, err)
		it.more = false

		return true
	}

	it.buffer = resp.Content
	it.index = 0
	it.meta = resp.Meta
	it.more = hasMorePages(resp.Meta, it.page, len(resp.Content))

	return len(it.buffer) > 0
}

// Next returns the next item.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		return zero, ErrNoMoreItems
	}

	if it.err != nil {
		err := it.err
		it.err = nil

		return zero, err
	}

	item := it.buffer[it.index]
	it.index++

	return item, nil
}

// Meta returns the metadata of the most recently fetched page.
func (it *PageIterator[T]) Meta() Meta {
	return it.meta
}

// Page returns the number of the most recently fetched page.
func (it *PageIterator[T]) Page() int {
	return it.page
}

// All drains the iterator.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

// FetchAllPages fetches pages until the metadata says there are no more or
// options.MaxPages is reached.
func FetchAllPages[T any](ctx context.Context, fetch PageFetcher[T], options *PaginationOptions) ([]T, error) {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	var all []T

	for page := 1; options.MaxPages == 0 || page <= options.MaxPages; page++ {
		resp, err := fetch(ctx, page)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, resp.Content...)

		if !hasMorePages(resp.Meta, page, len(resp.Content)) {
			break
		}
	}

	return all, nil
}
