// Copyright (c) 2026 Mistwell Games. All rights reserved.

// HTTP intake for the enrichment pipeline.
//
// The storefront fires a products/update webhook for every catalog change. The
// handler's only job is to enqueue: one queue slot per product id, overwritten
// on repeat events. All actual work happens later, in the scheduled worker
// drain.

package enrich

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mistwell/cardsync/internal/platform/request"
	"github.com/mistwell/cardsync/internal/platform/respond"
	"github.com/mistwell/cardsync/internal/queue"
)

// Handler implements the webhook intake for the enrichment queue.
type Handler struct {
	queue queue.Store
}

// NewHandler constructs the enrichment intake [Handler].
func NewHandler(queueStore queue.Store) *Handler {
	return &Handler{queue: queueStore}
}

// Routes returns a [chi.Router] with the enrichment intake endpoints.
// Mounted under /webhooks/products behind HMAC verification.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.productUpdated)
	return router
}

// productWebhookPayload is the subset of the storefront's product webhook
// body the pipeline cares about.
type productWebhookPayload struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	AdminGraphQLAPIID string `json:"admin_graphql_api_id"`
}

/*
POST /webhooks/products.

Description: Enqueues the affected product for the next enrichment drain.
Repeated events for one product collapse into a single queue slot.

Request:
  - body: storefront product payload (id, title, admin_graphql_api_id)

Response:
  - 202: queued: product slot written
  - 400: VALIDATION_ERROR: undecodable payload
*/
func (handler *Handler) productUpdated(writer http.ResponseWriter, request *http.Request) {

	// Decode the storefront payload
	var payload productWebhookPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Prefer the GraphQL GID; fall back to the numeric id
	productID := payload.AdminGraphQLAPIID
	if productID == "" {
		productID = fmt.Sprintf("gid://shopify/Product/%d", payload.ID)
	}

	// Write (or overwrite) the product's queue slot
	entry := queue.Entry{
		ProductID:  productID,
		Title:      payload.Title,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := handler.queue.Put(request.Context(), entry); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, map[string]string{"status": "queued", "product_id": productID})
}
