// Copyright (c) 2026 Mistwell Games. All rights reserved.

package runlog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mistwell/cardsync/internal/platform/respond"
	"github.com/mistwell/cardsync/pkg/pagination"
)

// Handler exposes the run-history read endpoints.
type Handler struct {
	repository Repository
}

// NewHandler constructs the run-history [Handler].
func NewHandler(repository Repository) *Handler {
	return &Handler{repository: repository}
}

// Routes returns a [chi.Router] with the run-history endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.list)
	router.Get("/latest", handler.latest)
	return router
}

/*
GET /api/v1/runs.

Description: Pages through recorded enrichment runs, newest first.

Response:
  - 200: paginated []Run
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	runs, total, err := handler.repository.List(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, runs, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/runs/latest.

Response:
  - 200: Run
  - 404: NOT_FOUND: no run recorded yet
*/
func (handler *Handler) latest(writer http.ResponseWriter, request *http.Request) {
	run, err := handler.repository.Latest(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, run)
}
