// Package mtgclient provides the primary entry point for constructing a
// Magic: The Gathering API client that implements the mtg.Client interface.
//
// It layers configuration, HTTP transport, interceptors and response caching
// on top of the resource interfaces and types defined in the mtg package.
// Most applications should import mtgclient to build a client, then use the
// returned mtg.Client to access Sets(), Cards() and Catalog().
//
// Quick start
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
//
//	  // Public endpoint, default retries, no cache.
//	  cli, err := mtgclient.New(ctx, &mtg.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  filter := mtg.NewSetFilterBuilder().
//	    Name("Khans of Tarkir").
//	    Block("Khans of Tarkir").
//	    Build()
//
//	  sets, err := cli.Sets().List(ctx, filter, nil)
//	  if err != nil { log.Fatal(err) }
//
//	  if sets.RatelimitRemaining != nil {
//	    log.Printf("%d requests left", *sets.RatelimitRemaining)
//	  }
//	}
//
// # Caching
//
// Config.Cache enables a response cache for GET requests. The memory backend
// is per process; the NATS backend stores entries in a JetStream key-value
// bucket shared by every client pointed at it:
//
//	cli, err := mtgclient.NewWithCache(ctx, "", &mtg.CacheConfig{
//	  Type: mtg.CacheTypeNATS,
//	  NATS: &mtg.NATSKVConfig{URL: "nats://127.0.0.1:4222"},
//	})
//
// Booster packs are random and bypass the cache.
//
// # Helpers
//
// NewWithEndpoint and NewWithCache cover the common cases; NormalizeEndpoint
// is exported for callers that store endpoints themselves.
package mtgclient
