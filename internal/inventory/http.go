// Copyright (c) 2026 Mistwell Games. All rights reserved.

package inventory

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mistwell/cardsync/internal/platform/respond"
	"github.com/mistwell/cardsync/internal/platform/validate"
	"github.com/mistwell/cardsync/pkg/convert"

	requestutil "github.com/mistwell/cardsync/internal/platform/request"
)

// Handler exposes the lookup, cart-assembly, and bulk-data endpoints, plus
// the inventory webhook intake.
type Handler struct {
	service *Service
}

// NewHandler constructs the inventory [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the public inventory endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/cards/lookup", handler.lookupGet)
	router.Post("/cards/lookup", handler.lookupPost)
	router.Post("/cart/assemble", handler.assembleCart)
	router.Get("/inventory/bulk", handler.bulkData)
	return router
}

// WebhookRoutes returns a [chi.Router] with the storefront inventory
// webhooks. Mounted behind HMAC verification.
func (handler *Handler) WebhookRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/inventory-levels", handler.inventoryLevelUpdated)
	router.Post("/rebuild", handler.rebuildRequested)
	return router
}

// lookupResult is the shared response shape for single-card lookups.
type lookupResult struct {
	Found bool     `json:"found"`
	Card  *Listing `json:"card,omitempty"`
}

/*
GET /api/v1/cards/lookup.

Description: Resolves one card query supplied as query parameters
(scryfall_id, oracle_id, set, collector_number, name, quantity) using the stock-lookup
policy. "Not found" is a successful response, not an error.

Response:
  - 200: lookupResult
  - 400: VALIDATION_ERROR: no identifier, or a malformed one
*/
func (handler *Handler) lookupGet(writer http.ResponseWriter, request *http.Request) {
	query := Query{
		ScryfallID:      requestutil.Query(request, "scryfall_id"),
		OracleID:        requestutil.Query(request, "oracle_id"),
		SetCode:         requestutil.Query(request, "set"),
		CollectorNumber: requestutil.Query(request, "collector_number"),
		Name:            requestutil.Query(request, "name"),
		Quantity:        convert.ToInt(requestutil.Query(request, "quantity")),
	}

	handler.lookup(writer, request, query, ModeStock)
}

/*
POST /api/v1/cards/lookup.

Description: Same resolution as the GET form, with the query supplied as a
JSON body. Useful for names that are awkward in a query string.

Request:
  - body: Query

Response:
  - 200: lookupResult
  - 400: VALIDATION_ERROR: undecodable body, no identifier, or a malformed one
*/
func (handler *Handler) lookupPost(writer http.ResponseWriter, request *http.Request) {
	var query Query
	if err := requestutil.DecodeJSON(request, &query); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.lookup(writer, request, query, ModeStock)
}

// lookup validates and resolves one query under the given policy.
func (handler *Handler) lookup(writer http.ResponseWriter, request *http.Request, query Query, mode Mode) {
	if err := validateQuery(query); err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Lookup(request.Context(), query, mode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, lookupResult{Found: listing != nil, Card: listing})
}

// cartRequest is a batch of card queries to assemble into purchasable listings.
type cartRequest struct {
	Items []Query `json:"items"`
}

// cartItemResult pairs one requested query with its resolution.
type cartItemResult struct {
	Query Query    `json:"query"`
	Found bool     `json:"found"`
	Card  *Listing `json:"card,omitempty"`
}

// cartResponse is the assembled cart.
type cartResponse struct {
	Items    []cartItemResult `json:"items"`
	AllFound bool             `json:"all_found"`
}

/*
POST /api/v1/cart/assemble.

Description: Resolves every item under the cart-assembly policy: only
in-stock listings with sufficient quantity qualify, and the fuzzy name step
is enabled. Unresolvable items come back with found=false; the request as a
whole still succeeds.

Request:
  - body: cartRequest (1..200 items)

Response:
  - 200: cartResponse
  - 400: VALIDATION_ERROR: undecodable body, empty item list, or a malformed item
*/
func (handler *Handler) assembleCart(writer http.ResponseWriter, request *http.Request) {
	var payload cartRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Range("items", len(payload.Items), 1, 200)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	for _, item := range payload.Items {
		if err := validateQuery(item); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	response := cartResponse{
		Items:    make([]cartItemResult, 0, len(payload.Items)),
		AllFound: true,
	}
	for _, item := range payload.Items {
		listing, err := handler.service.Lookup(request.Context(), item, ModeCart)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if listing == nil {
			response.AllFound = false
		}
		response.Items = append(response.Items, cartItemResult{
			Query: item,
			Found: listing != nil,
			Card:  listing,
		})
	}

	respond.OK(writer, response)
}

/*
GET /api/v1/inventory/bulk.

Description: Serves the full inventory document with live stock deltas merged
in. Intended for deck-builder integrations that sync the whole store.

Response:
  - 200: Snapshot
  - 404: NOT_FOUND: no snapshot has been built yet
*/
func (handler *Handler) bulkData(writer http.ResponseWriter, request *http.Request) {
	snapshot, err := handler.service.Bulk(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot)
}

// inventoryLevelPayload is the subset of the storefront's
// inventory_levels/update webhook body the overlay cares about.
type inventoryLevelPayload struct {
	InventoryItemID int64  `json:"inventory_item_id"`
	Available       int    `json:"available"`
	UpdatedAt       string `json:"updated_at"`
}

/*
POST /webhooks/inventory-levels.

Description: Records one stock delta in the live overlay. Deltas carry the
storefront's event timestamp; an out-of-order delivery older than the stored
entry is ignored.

Request:
  - body: storefront inventory-level payload

Response:
  - 202: recorded
  - 400: VALIDATION_ERROR: undecodable payload
*/
func (handler *Handler) inventoryLevelUpdated(writer http.ResponseWriter, request *http.Request) {
	var payload inventoryLevelPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updatedAt, err := time.Parse(time.RFC3339, payload.UpdatedAt)
	if err != nil {
		updatedAt = time.Now().UTC()
	}

	handler.service.RecordDelta(OverlayEntry{
		InventoryItemID: "gid://shopify/InventoryItem/" + strconv.FormatInt(payload.InventoryItemID, 10),
		AvailableQty:    payload.Available,
		UpdatedAt:       updatedAt,
	})

	respond.Accepted(writer, map[string]string{"status": "recorded"})
}

/*
POST /webhooks/rebuild.

Description: Requests a full snapshot rebuild. Bursts coalesce: triggers
arriving within the debounce window of the last successful rebuild are
acknowledged without doing any work.

Response:
  - 202: {"status": "rebuilt" | "debounced"}
  - 502: UPSTREAM_ERROR: catalog walk failed
*/
func (handler *Handler) rebuildRequested(writer http.ResponseWriter, request *http.Request) {
	ran, err := handler.service.TriggerRebuild(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := "debounced"
	if ran {
		status = "rebuilt"
	}
	respond.Accepted(writer, map[string]string{"status": status})
}

// validateQuery rejects queries with no usable identifier or with malformed
// identifier formats. Partial (set, number) pairs are allowed: the cascade
// simply skips steps whose inputs are incomplete.
func validateQuery(query Query) error {
	validator := &validate.Validator{}

	hasIdentifier := query.ScryfallID != "" || query.OracleID != "" || query.Name != "" ||
		(query.SetCode != "" && query.CollectorNumber != "")
	validator.Custom("query", !hasIdentifier,
		"At least one identifier is required (scryfall_id, oracle_id, name, or set + collector_number)")

	if query.ScryfallID != "" {
		validator.UUID("scryfall_id", query.ScryfallID)
	}
	if query.OracleID != "" {
		validator.UUID("oracle_id", query.OracleID)
	}
	if query.SetCode != "" {
		validator.SetCode("set", query.SetCode)
	}
	if query.Name != "" {
		validator.MaxLen("name", query.Name, 200)
	}
	validator.Range("quantity", query.Quantity, 0, 1000)

	return validator.Err()
}
