// Copyright (c) 2026 Mistwell Games. All rights reserved.

package runlog_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistwell/cardsync/internal/enrich"
	"github.com/mistwell/cardsync/internal/runlog"
)

/*
TestFromSummary_CopiesCounters checks that every summary counter lands on the run.
*/
func TestFromSummary_CopiesCounters(t *testing.T) {
	started := time.Date(2026, 8, 30, 2, 0, 0, 0, time.UTC)
	summary := enrich.Summary{
		StartedAt:       started,
		FinishedAt:      started.Add(4 * time.Minute),
		Total:           120,
		Enriched:        95,
		SkippedEnriched: 14,
		ScryfallMisses:  7,
		ParseFailures:   2,
		Failed:          2,
		Errors:          []string{"gid://shopify/Product/1: enrichment failed"},
	}

	run := runlog.FromSummary(summary)

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)

	assert.Equal(t, summary.StartedAt, run.StartedAt)
	assert.Equal(t, summary.FinishedAt, run.FinishedAt)
	assert.Equal(t, summary.Total, run.Total)
	assert.Equal(t, summary.Enriched, run.Enriched)
	assert.Equal(t, summary.SkippedEnriched, run.SkippedEnriched)
	assert.Equal(t, summary.ScryfallMisses, run.ScryfallMisses)
	assert.Equal(t, summary.ParseFailures, run.ParseFailures)
	assert.Equal(t, summary.Failed, run.Failed)
	assert.Equal(t, summary.Errors, run.Errors)
}

/*
TestFromSummary_CleanRunHasEmptyErrors checks that a run with no failures
carries an empty error list rather than a nil slice. The errors column is
declared NOT NULL, and the driver encodes a nil slice as SQL NULL, so a nil
list would fail the insert for every clean run.
*/
func TestFromSummary_CleanRunHasEmptyErrors(t *testing.T) {
	summary := enrich.Summary{
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
		Total:      50,
		Enriched:   50,
	}

	run := runlog.FromSummary(summary)

	require.NotNil(t, run.Errors)
	assert.Empty(t, run.Errors)
}

/*
TestFromSummary_AssignsUniqueIDs checks that consecutive runs never share an id.
*/
func TestFromSummary_AssignsUniqueIDs(t *testing.T) {
	first := runlog.FromSummary(enrich.Summary{})
	second := runlog.FromSummary(enrich.Summary{})

	assert.NotEqual(t, first.ID, second.ID)
}
