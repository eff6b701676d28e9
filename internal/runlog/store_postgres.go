// Copyright (c) 2026 Mistwell Games. All rights reserved.

package runlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mistwell/cardsync/internal/platform/dberr"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed run store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
Record persists one finished run.

Parameters:
  - context: context.Context
  - run: Run (id assigned by the caller)

Returns:
  - error: Insert failures
*/
func (repository *postgresRepository) Record(context context.Context, run Run) error {
	if run.Errors == nil {
		run.Errors = []string{}
	}

	_, err := repository.pool.Exec(context, `
		INSERT INTO enrichment_runs (
			id, started_at, finished_at,
			total, enriched, skipped_enriched,
			scryfall_misses, parse_failures, failed, errors
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		run.ID, run.StartedAt, run.FinishedAt,
		run.Total, run.Enriched, run.SkippedEnriched,
		run.ScryfallMisses, run.ParseFailures, run.Failed, run.Errors,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to record run: %w", err)
	}

	return nil
}

/*
List retrieves runs newest-first.

Description: Uses a window function for the total count, avoiding a second
round-trip.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Run: Page of runs
  - int: Total recorded runs
  - error: Query failures
*/
func (repository *postgresRepository) List(context context.Context, limit, offset int) ([]*Run, int, error) {
	rows, err := repository.pool.Query(context, `
		SELECT
			id, started_at, finished_at,
			total, enriched, skipped_enriched,
			scryfall_misses, parse_failures, failed, errors,
			created_at,
			COUNT(*) OVER() AS total_count
		FROM enrichment_runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	var totalCount int

	for rows.Next() {
		var run Run
		err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.Total, &run.Enriched, &run.SkippedEnriched,
			&run.ScryfallMisses, &run.ParseFailures, &run.Failed, &run.Errors,
			&run.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate runs: %w", err)
	}

	return runs, totalCount, nil
}

/*
Latest returns the most recent run.

Returns:
  - *Run: The newest run by start time
  - error: NOT_FOUND when no run has been recorded yet
*/
func (repository *postgresRepository) Latest(context context.Context) (*Run, error) {
	var run Run
	err := repository.pool.QueryRow(context, `
		SELECT
			id, started_at, finished_at,
			total, enriched, skipped_enriched,
			scryfall_misses, parse_failures, failed, errors,
			created_at
		FROM enrichment_runs
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt,
		&run.Total, &run.Enriched, &run.SkippedEnriched,
		&run.ScryfallMisses, &run.ParseFailures, &run.Failed, &run.Errors,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "latest run")
	}

	return &run, nil
}
