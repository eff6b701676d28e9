// Copyright (c) 2026 Mistwell Games. All rights reserved.

package runlog

import "context"

// Repository abstracts the run-history persistence layer.
type Repository interface {

	/*
		Record persists one finished run.
	*/
	Record(context context.Context, run Run) error

	/*
		List retrieves runs newest-first.
	*/
	List(context context.Context, limit, offset int) ([]*Run, int, error)

	/*
		Latest returns the most recent run.
	*/
	Latest(context context.Context) (*Run, error)
}
