/*
Package shopify is the write side of the enrichment pipeline: a rate-limited,
retrying client for the storefront's Admin GraphQL API.

It carries three concerns:

  - Transport: one POST endpoint, access-token auth, token-bucket pacing, and
    exponential backoff when the API throttles (HTTP 429 or a structured
    THROTTLED error code).
  - Batch metafield writes: up to 25 products per combined mutation, each
    sub-mutation aliased by index so per-item errors map back to product ids
    without aborting siblings.
  - Catalog reads: the idempotency gate's sentinel check and the paginated
    product listing used by the snapshot rebuild.
*/
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mistwell/cardsync/internal/platform/constants"
)

// # GraphQL Transport

// graphQLRequest is the JSON body of every Admin API call.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError is one entry of the top-level "errors" array.
type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// graphQLResponse is the envelope around every Admin API reply.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// throttled reports whether any top-level error carries the THROTTLED code.
func (r *graphQLResponse) throttled() bool {
	for _, e := range r.Errors {
		if e.Extensions.Code == "THROTTLED" {
			return true
		}
	}
	return false
}

// Client talks to the storefront's Admin GraphQL endpoint.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
	limiter     *rate.Limiter
	logger      *slog.Logger

	// retryBase and maxRetries govern the throttle backoff. Injected values
	// let tests exercise the retry loop without real delays.
	retryBase  time.Duration
	maxRetries int
}

// NewClient constructs a catalog [Client] with the standard pacing and
// backoff policy.
func NewClient(endpoint, accessToken string, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		endpoint:    endpoint,
		accessToken: accessToken,
		limiter:     rate.NewLimiter(rate.Limit(constants.ShopifyWriteRPS), constants.ShopifyWriteBurst),
		logger:      logger,
		retryBase:   constants.ShopifyRetryBaseDelay,
		maxRetries:  constants.ShopifyMaxRetries,
	}
}

/*
Do executes one GraphQL document with throttle-aware retries.

Description: On HTTP 429 or a structured THROTTLED error, the call is retried
with exponential backoff (base * 2^attempt) up to the configured cap. Any
other transport error, non-2xx status, or GraphQL error surfaces immediately
as a batch-level failure.

Parameters:
  - context: context.Context
  - query: string (GraphQL document)
  - variables: map[string]any (document variables, may be nil)
  - target: any (pointer receiving the decoded "data" object; may be nil)

Returns:
  - error: Batch-level failure after retries are exhausted
*/
func (client *Client) Do(context context.Context, query string, variables map[string]any, target any) error {

	var lastErr error

	for attempt := 0; attempt <= client.maxRetries; attempt++ {

		// Backoff before every retry (not before the first attempt).
		if attempt > 0 {
			delay := client.retryBase * (1 << (attempt - 1))
			client.logger.Warn("shopify_throttled_retrying",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
			)

			select {
			case <-time.After(delay):
			case <-context.Done():
				return context.Err()
			}
		}

		response, retryable, err := client.execute(context, query, variables)
		if err != nil {
			if !retryable {
				return err
			}
			lastErr = err
			continue
		}

		if target != nil && len(response.Data) > 0 {
			if err := json.Unmarshal(response.Data, target); err != nil {
				return fmt.Errorf("shopify_response_decode_failed: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("shopify_throttled_retries_exhausted: %w", lastErr)
}

// execute performs a single paced HTTP round trip.
// The second return value reports whether a failure is retryable (throttling).
func (client *Client) execute(context context.Context, query string, variables map[string]any) (*graphQLResponse, bool, error) {

	// Respect the shared token bucket before every attempt.
	if err := client.limiter.Wait(context); err != nil {
		return nil, false, fmt.Errorf("shopify_rate_wait_failed: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, false, fmt.Errorf("shopify_request_marshal_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, client.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("shopify_request_build_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Shopify-Access-Token", client.accessToken)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, false, fmt.Errorf("shopify_request_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	// HTTP-level throttling is retryable.
	if response.StatusCode == http.StatusTooManyRequests {
		return nil, true, fmt.Errorf("shopify_http_429")
	}

	if response.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, false, fmt.Errorf("shopify_http_%d: %s", response.StatusCode, string(payload))
	}

	var decoded graphQLResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("shopify_response_malformed: %w", err)
	}

	// Structured throttling inside a 200 is also retryable.
	if decoded.throttled() {
		return nil, true, fmt.Errorf("shopify_graphql_throttled")
	}

	if len(decoded.Errors) > 0 {
		return nil, false, fmt.Errorf("shopify_graphql_error: %s", decoded.Errors[0].Message)
	}

	return &decoded, false, nil
}
