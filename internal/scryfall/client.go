// Copyright (c) 2026 Mistwell Games. All rights reserved.

package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mistwell/cardsync/internal/platform/constants"
)

// Client is the rate-limited HTTP client for the card database.
//
// # Miss Semantics
//
// Lookup methods return (nil, nil) on a miss: HTTP 404, any other non-2xx
// status, a malformed payload, or a 429 (after a courtesy pause). Only
// transport-level failures (the request never completed) return an error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger

	// pause429 is the sleep applied when the API answers 429. Injected so
	// tests don't wait out the real courtesy pause.
	pause429 time.Duration
}

// NewClient constructs a card database [Client] with the shared token bucket.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(constants.ScryfallRPS), constants.ScryfallBurst),
		logger:     logger,
		pause429:   constants.Scryfall429Pause,
	}
}

// # Lookup Endpoints

/*
GetBySetNumber fetches a card by its (set code, collector number) pair.

Parameters:
  - context: context.Context
  - setCode: string (canonical, lowercase)
  - number: string (collector number as printed)

Returns:
  - *Card: The printing, or nil on a miss
  - error: Transport-level failures only
*/
func (client *Client) GetBySetNumber(context context.Context, setCode, number string) (*Card, error) {
	endpoint := fmt.Sprintf("%s/cards/%s/%s", client.baseURL, url.PathEscape(setCode), url.PathEscape(number))
	return client.get(context, endpoint)
}

/*
GetByNameSet fetches a card by exact name within one set.

Parameters:
  - context: context.Context
  - name: string (exact card name)
  - setCode: string (canonical, lowercase)

Returns:
  - *Card: The printing, or nil on a miss
  - error: Transport-level failures only
*/
func (client *Client) GetByNameSet(context context.Context, name, setCode string) (*Card, error) {
	params := url.Values{}
	params.Set("exact", name)
	params.Set("set", setCode)
	return client.get(context, client.baseURL+"/cards/named?"+params.Encode())
}

/*
GetByName fetches a card by exact name with no set constraint.

Parameters:
  - context: context.Context
  - name: string (exact card name)

Returns:
  - *Card: The card database's preferred printing, or nil on a miss
  - error: Transport-level failures only
*/
func (client *Client) GetByName(context context.Context, name string) (*Card, error) {
	params := url.Values{}
	params.Set("exact", name)
	return client.get(context, client.baseURL+"/cards/named?"+params.Encode())
}

// # Resolution Cascade

/*
Resolve runs the full lookup cascade for a parsed title.

Description: Steps are tried in strict order, each short-circuiting on the
first hit:

 1. Ambiguous set code: for each candidate set in list order, try collector
    number, then exact name within that set.
 2. Resolved set + collector number, retrying once with leading zeros stripped.
 3. Exact name within the resolved set.
 4. Exact name with no set constraint.

Parameters:
  - context: context.Context
  - name: string (card name; may be empty only if set+number are present)
  - setCode: string (storefront code; resolved internally; may be empty)
  - number: string (collector number; may be empty)

Returns:
  - *Card: The resolved card, or nil when every step missed
  - error: The last transport failure encountered, if the cascade ended on one
*/
func (client *Client) Resolve(context context.Context, name, setCode, number string) (*Card, error) {

	// Build the ordered candidate lookups, then try them with early exit.
	var lookups []func() (*Card, error)

	// 1. Ambiguous codes expand into per-candidate (number, name+set) pairs
	for _, candidate := range AmbiguousCandidates(setCode) {
		candidate := candidate
		if number != "" {
			lookups = append(lookups, func() (*Card, error) {
				return client.GetBySetNumber(context, candidate, number)
			})
		}
		if name != "" {
			lookups = append(lookups, func() (*Card, error) {
				return client.GetByNameSet(context, name, candidate)
			})
		}
	}

	// 2. Single-code override path
	resolved := ""
	if setCode != "" {
		resolved = ResolveSetCode(setCode)
	}

	if resolved != "" && number != "" {
		lookups = append(lookups, func() (*Card, error) {
			return client.GetBySetNumber(context, resolved, number)
		})

		// Storefront titles zero-pad collector numbers; the card database does not.
		if stripped := strings.TrimLeft(number, "0"); stripped != "" && stripped != number {
			lookups = append(lookups, func() (*Card, error) {
				return client.GetBySetNumber(context, resolved, stripped)
			})
		}
	}

	// 3. Exact name within the resolved set
	if resolved != "" && name != "" {
		lookups = append(lookups, func() (*Card, error) {
			return client.GetByNameSet(context, name, resolved)
		})
	}

	// 4. Exact name, any set
	if name != "" {
		lookups = append(lookups, func() (*Card, error) {
			return client.GetByName(context, name)
		})
	}

	var lastErr error
	for _, lookup := range lookups {
		card, err := lookup()
		if err != nil {
			// Transport failure: record and keep walking the cascade.
			lastErr = err
			continue
		}
		if card != nil {
			return card, nil
		}
	}

	return nil, lastErr
}

// # Transport

// get performs one rate-limited GET and decodes the card payload.
func (client *Client) get(context context.Context, endpoint string) (*Card, error) {

	// Wait for a token; respects context cancellation.
	if err := client.limiter.Wait(context); err != nil {
		return nil, fmt.Errorf("scryfall_rate_wait_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(context, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("scryfall_request_build_failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", constants.AppName+"/"+constants.AppVersion)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("scryfall_request_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	// 429: pause briefly and abandon the call. The cascade treats this as a
	// miss so one throttled step degrades gracefully instead of blocking.
	if response.StatusCode == http.StatusTooManyRequests {
		client.logger.Warn("scryfall_rate_limited", slog.String("endpoint", request.URL.Path))
		time.Sleep(client.pause429)
		return nil, nil
	}

	if response.StatusCode != http.StatusOK {
		return nil, nil
	}

	var card Card
	if err := json.NewDecoder(response.Body).Decode(&card); err != nil {
		client.logger.Warn("scryfall_payload_malformed",
			slog.String("endpoint", request.URL.Path),
			slog.Any("error", err),
		)
		return nil, nil
	}

	return &card, nil
}
