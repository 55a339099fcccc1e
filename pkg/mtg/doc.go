// Package mtg provides types, interfaces, and helpers for working with the
// Magic: The Gathering data API (https://api.magicthegathering.io).
//
// # Overview
//
// The mtg package defines the domain types (Set, Card), the resource client
// interfaces (SetsClient, CardsClient, CatalogClient), the set filter builder
// and the Response envelope. A concrete implementation of the clients is
// provided by the mtgclient package, which wires configuration, transport and
// caching.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/mtgio/pkg/mtg"
//	  "github.com/fivetwenty-io/mtgio/pkg/mtgclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := mtgclient.New(ctx, &mtg.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  filter := mtg.NewSetFilterBuilder().Block("Khans of Tarkir").Build()
//	  sets, err := cli.Sets().List(ctx, filter, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = sets.Content
//	}
//
// # Filters
//
// SetFilterBuilder accumulates key=value clauses joined by "&" in the order
// they were added. Nothing is escaped or de-duplicated. AllOf and AnyOf join
// several values of one clause with "," (all must match) or "|" (any may
// match). An empty SetFilter means no filtering and is left off the request.
//
// # Responses and metadata
//
// Every call returns a Response that pairs the decoded payload with the
// Page-Size, Count, Total-Count, Ratelimit-Limit and Ratelimit-Remaining
// headers. A header that is missing or not an unsigned integer leaves its
// field nil; it never fails the call. ParseMeta exposes the individual
// problems as HeaderError values wrapping ErrMissingHeader or
// ErrMalformedHeaderValue.
//
// # Pagination
//
// FetchAllPages and PageIterator walk list endpoints page by page, using the
// envelope's counters to decide when to stop.
//
// # Interceptors and caching
//
// Request/response interceptors (logging, headers, client-side rate limiting,
// rate-limit tracking) run around every request. GET responses can be cached
// in memory or in a NATS JetStream key-value bucket.
package mtg
