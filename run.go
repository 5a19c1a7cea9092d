package harvest

import (
	"context"
	"time"
)

// Run is an archived crawl run.
type Run struct {
	ID        string
	StartURL  string
	StartedAt time.Time
	PageCount int
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	IDPrefix *string
	StartURL *string

	Limit  int
	Offset int
}

// RunService reads archived crawl runs.
type RunService interface {
	// FindRunByID returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns returns runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindRunResults returns the pages of a run in crawl order.
	FindRunResults(ctx context.Context, runID string) ([]*PageResult, error)
}
