// Copyright (c) 2026 Mistwell Games. All rights reserved.

package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mistwell/cardsync/internal/platform/constants"
	"github.com/mistwell/cardsync/internal/queue"
	"github.com/mistwell/cardsync/internal/scryfall"
	"github.com/mistwell/cardsync/internal/shopify"
)

// # Collaborator Contracts

// CardResolver resolves parsed title fragments into a canonical card.
type CardResolver interface {

	/*
		Resolve runs the lookup cascade for one parsed title.

		Returns:
		  - *scryfall.Card: The resolved card, or nil on a miss
		  - error: Transport-level failures only
	*/
	Resolve(context context.Context, name, setCode, number string) (*scryfall.Card, error)
}

// Catalog is the storefront write/read surface the worker needs.
type Catalog interface {

	/*
		HasCanonicalID reports whether the sentinel attribute is already present.
	*/
	HasCanonicalID(context context.Context, productID string) (bool, error)

	/*
		SetMetafields writes one combined batch mutation.

		Returns:
		  - []shopify.WriteResult: Per-item outcomes, in input order
		  - error: Batch-level failure
	*/
	SetMetafields(context context.Context, batch []shopify.ProductWrite) ([]shopify.WriteResult, error)
}

// # Run Summary

// Summary aggregates the per-item outcomes of one enrichment run.
//
// Nothing in a run is fatal; this struct is the worker's whole verdict.
type Summary struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Total is the number of queue entries drained into this run.
	Total int `json:"total"`
	// Enriched counts items whose catalog write succeeded.
	Enriched int `json:"enriched"`
	// SkippedEnriched counts items the idempotency gate filtered out.
	SkippedEnriched int `json:"skipped_enriched"`
	// ScryfallMisses counts items whose lookup cascade was exhausted.
	ScryfallMisses int `json:"scryfall_misses"`
	// ParseFailures counts items whose title yielded no card name.
	ParseFailures int `json:"parse_failures"`
	// Failed counts transport failures, gate errors, and per-item write errors.
	Failed int `json:"failed"`

	// Errors holds one message per failed item for the run log.
	Errors []string `json:"errors,omitempty"`
}

// # Worker

// Service is the enrichment worker: it orchestrates one drain-and-enrich
// cycle over the dedup queue.
//
// # Concurrency
//
// Intentionally single-threaded: queue items are processed sequentially and
// all pacing lives in the clients' token buckets. One Service per invocation.
type Service struct {
	queue     queue.Store
	cards     CardResolver
	catalog   Catalog
	logger    *slog.Logger
	batchSize int
}

// NewService constructs the enrichment worker [Service].
func NewService(queueStore queue.Store, cards CardResolver, catalog Catalog, logger *slog.Logger) *Service {
	return &Service{
		queue:     queueStore,
		cards:     cards,
		catalog:   catalog,
		logger:    logger,
		batchSize: constants.MetafieldBatchSize,
	}
}

/*
Run drains the queue and enriches every drained item.

Description: The drain clears queue slots before processing begins (see the
queue package for the crash-window trade-off). Items are processed
sequentially: gate → parse → resolve → build, with completed writes flushed
in batches of [constants.MetafieldBatchSize]. Per-item failures are counted
and never abort the run.

Parameters:
  - context: context.Context

Returns:
  - Summary: Aggregated per-item outcomes
  - error: Queue drain failure only (nothing was processed)
*/
func (service *Service) Run(context context.Context) (Summary, error) {
	summary := Summary{StartedAt: time.Now().UTC()}

	// 1. Drain (delete-before-dispatch)
	entries, err := service.queue.DrainAll(context)
	if err != nil {
		return summary, fmt.Errorf("queue_drain_failed: %w", err)
	}

	summary.Total = len(entries)
	service.logger.Info("enrichment_run_started", slog.Int("drained", len(entries)))

	// 2. Sequential enrichment with batched writes
	var pending []shopify.ProductWrite

	for index, entry := range entries {
		select {
		case <-context.Done():
			// Everything the cancellation strands counts as failed: the
			// resolved-but-unflushed writes plus every entry not yet
			// processed. Total stays equal to the sum of the outcome
			// counters.
			stranded := len(entries) - index
			summary.Failed += stranded + len(pending)
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("run cancelled with %d items unprocessed: %v", stranded, context.Err()))
			if len(pending) > 0 {
				summary.Errors = append(summary.Errors,
					fmt.Sprintf("%d resolved writes dropped on cancellation", len(pending)))
			}
			summary.FinishedAt = time.Now().UTC()
			return summary, nil
		default:
		}

		write, outcome := service.enrichOne(context, entry)
		switch outcome {
		case outcomeSkipped:
			summary.SkippedEnriched++
		case outcomeParseFailure:
			summary.ParseFailures++
		case outcomeMiss:
			summary.ScryfallMisses++
		case outcomeFailed:
			summary.Failed++
			summary.Errors = append(summary.Errors, entry.ProductID+": enrichment failed")
		case outcomeResolved:
			pending = append(pending, *write)
			if len(pending) >= service.batchSize {
				service.flush(context, pending, &summary)
				pending = nil
			}
		}
	}

	// 3. Final partial batch
	if len(pending) > 0 {
		service.flush(context, pending, &summary)
	}

	summary.FinishedAt = time.Now().UTC()

	service.logger.Info("enrichment_run_finished",
		slog.Int("total", summary.Total),
		slog.Int("enriched", summary.Enriched),
		slog.Int("skipped_enriched", summary.SkippedEnriched),
		slog.Int("scryfall_misses", summary.ScryfallMisses),
		slog.Int("parse_failures", summary.ParseFailures),
		slog.Int("failed", summary.Failed),
	)

	return summary, nil
}

// Per-item outcome classification.
type itemOutcome int

const (
	outcomeResolved itemOutcome = iota
	outcomeSkipped
	outcomeParseFailure
	outcomeMiss
	outcomeFailed
)

// enrichOne runs the gate → parse → resolve → build steps for one entry.
func (service *Service) enrichOne(context context.Context, entry queue.Entry) (*shopify.ProductWrite, itemOutcome) {

	// Idempotency gate: the queue is at-least-once, the catalog write is not.
	alreadyEnriched, err := service.catalog.HasCanonicalID(context, entry.ProductID)
	if err != nil {
		service.logger.Warn("idempotency_gate_failed",
			slog.String("product_id", entry.ProductID),
			slog.Any("error", err),
		)
		return nil, outcomeFailed
	}
	if alreadyEnriched {
		return nil, outcomeSkipped
	}

	// Title parse: terminal failure is an outcome, not an error.
	parsed := ParseTitle(entry.Title)
	if !parsed.Valid() {
		service.logger.Debug("title_unparseable", slog.String("title", entry.Title))
		return nil, outcomeParseFailure
	}

	// Lookup cascade.
	card, err := service.cards.Resolve(context, parsed.CardName, parsed.SetCode, parsed.CollectorNumber)
	if err != nil {
		service.logger.Warn("card_lookup_transport_failed",
			slog.String("product_id", entry.ProductID),
			slog.Any("error", err),
		)
		return nil, outcomeFailed
	}
	if card == nil {
		service.logger.Debug("card_lookup_missed",
			slog.String("card_name", parsed.CardName),
			slog.String("set_code", parsed.SetCode),
		)
		return nil, outcomeMiss
	}

	fields := BuildMetafields(card)
	if len(fields) == 0 {
		return nil, outcomeMiss
	}

	return &shopify.ProductWrite{ProductID: entry.ProductID, Metafields: fields}, outcomeResolved
}

// flush writes one batch and folds per-item results into the summary.
func (service *Service) flush(context context.Context, batch []shopify.ProductWrite, summary *Summary) {
	results, err := service.catalog.SetMetafields(context, batch)
	if err != nil {
		// Batch-level failure: every item in the batch failed.
		summary.Failed += len(batch)
		summary.Errors = append(summary.Errors, fmt.Sprintf("batch write failed (%d items): %v", len(batch), err))
		service.logger.Error("catalog_batch_write_failed",
			slog.Int("batch_size", len(batch)),
			slog.Any("error", err),
		)
		return
	}

	for _, result := range results {
		if result.Failed() {
			summary.Failed++
			summary.Errors = append(summary.Errors, result.ProductID+": "+result.Err)
			continue
		}
		summary.Enriched++
	}
}
