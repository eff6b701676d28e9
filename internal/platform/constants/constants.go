// Copyright (c) 2026 Mistwell Games. All rights reserved.

/*
Package constants provides centralized, immutable values for the sync pipeline.

It defines default timeouts, pacing rates, batch sizes, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Pipeline Pacing: Outbound request rates and retry/backoff policy.
  - Inventory: Snapshot cache TTL, rebuild debounce, matching thresholds.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "cardsync"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Inbound Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Pipeline Pacing

const (
	// ScryfallRPS is the steady-state request rate against the card database.
	// Scryfall asks integrations to stay at or below 10 requests per second.
	ScryfallRPS = 10.0

	// ScryfallBurst is the bucket size for the card database limiter.
	ScryfallBurst = 1

	// Scryfall429Pause is the courtesy pause after the card database answers 429.
	// The call is abandoned (treated as a miss), not retried.
	Scryfall429Pause = 2 * time.Second

	// ShopifyWriteRPS is the steady-state mutation rate against the catalog API.
	ShopifyWriteRPS = 2.0

	// ShopifyWriteBurst is the bucket size for the catalog write limiter.
	ShopifyWriteBurst = 1

	// ShopifyRetryBaseDelay is the base for exponential backoff on throttled
	// writes. Actual delay is base * 2^attempt.
	ShopifyRetryBaseDelay = 1 * time.Second

	// ShopifyMaxRetries caps retry attempts for a throttled catalog write.
	ShopifyMaxRetries = 4

	// MetafieldBatchSize is the number of products written per combined mutation.
	MetafieldBatchSize = 25
)

// # Inventory Serving

const (
	// SnapshotCacheTTL is how long a loaded snapshot + index is served before reload.
	SnapshotCacheTTL = 5 * time.Minute

	// RebuildDebounceWindow coalesces webhook-sourced rebuild triggers.
	// Process-lifetime state: a cold start forgets the last trigger time.
	RebuildDebounceWindow = 10 * time.Minute

	// MinMatchQuantity is the minimum available quantity for a listing to be
	// considered in-stock by the matching engine's group steps.
	MinMatchQuantity = 1
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"

	// HeaderShopifyHmac carries the HMAC-SHA256 signature of a webhook body.
	HeaderShopifyHmac = "X-Shopify-Hmac-Sha256"

	// HeaderShopifyTopic identifies the webhook topic (e.g. "products/update").
	HeaderShopifyTopic = "X-Shopify-Topic"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Queue Taxonomy)

const (
	// RedisPrefixQueue is the key prefix for pending enrichment queue entries.
	// One slot per product id: repeated webhook events collapse into one entry.
	RedisPrefixQueue = "enrich:pending:"
)

// # Catalog Metafields

const (
	// MetafieldNamespace is the namespace for all card attributes written to the catalog.
	MetafieldNamespace = "cards"

	// MetafieldKeyScryfallID is the sentinel attribute checked by the idempotency gate.
	MetafieldKeyScryfallID = "scryfall_id"
)
