// Copyright (c) 2026 Mistwell Games. All rights reserved.

/*
Package runlog persists the outcome of every enrichment drain.

Each worker invocation writes exactly one row, successful or not. The history
answers the operational questions a scheduled pipeline raises: did last
night's run happen, how many cards did it touch, and what failed.
*/
package runlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/mistwell/cardsync/internal/enrich"
)

// Run is one recorded enrichment drain.
type Run struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Total           int       `json:"total"`
	Enriched        int       `json:"enriched"`
	SkippedEnriched int       `json:"skipped_enriched"`
	ScryfallMisses  int       `json:"scryfall_misses"`
	ParseFailures   int       `json:"parse_failures"`
	Failed          int       `json:"failed"`
	Errors          []string  `json:"errors,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// FromSummary builds a [Run] from a drain summary, assigning a fresh id.
func FromSummary(summary enrich.Summary) Run {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	// The errors column is NOT NULL; a clean run must carry an empty array,
	// not a nil slice (pgx encodes nil as SQL NULL).
	errors := summary.Errors
	if errors == nil {
		errors = []string{}
	}

	return Run{
		ID:              id.String(),
		StartedAt:       summary.StartedAt,
		FinishedAt:      summary.FinishedAt,
		Total:           summary.Total,
		Enriched:        summary.Enriched,
		SkippedEnriched: summary.SkippedEnriched,
		ScryfallMisses:  summary.ScryfallMisses,
		ParseFailures:   summary.ParseFailures,
		Failed:          summary.Failed,
		Errors:          errors,
	}
}
