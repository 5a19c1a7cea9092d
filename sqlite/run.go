package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ harvest.ResultWriter = (*ResultStore)(nil)
	_ harvest.RunService   = (*RunService)(nil)
)

// ResultStore archives the results of a crawl as a new run.
type ResultStore struct {
	db       *DB
	startURL string

	// Now returns the run start time. Defaults to time.Now.
	Now func() time.Time

	runID string
}

// NewResultStore creates a ResultStore recording runs that started at startURL.
func NewResultStore(db *DB, startURL string) *ResultStore {
	return &ResultStore{db: db, startURL: startURL, Now: time.Now}
}

// RunID returns the ID of the run created by the last successful write.
func (s *ResultStore) RunID() string {
	return s.runID
}

// WriteResults inserts a run and its pages in a single transaction.
// A run with no pages is still recorded.
func (s *ResultStore) WriteResults(ctx context.Context, results []*harvest.PageResult) error {
	for _, r := range results {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	startedAt := formatTime(s.Now())

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, start_url, started_at) VALUES (?, ?, ?)
	`, id, s.startURL, startedAt); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (run_id, position, url, title, text_content, content_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range results {
		if _, err := stmt.ExecContext(ctx, id, i, r.URL, r.Title, r.TextContent, crawl.ContentHash(r.TextContent)); err != nil {
			return fmt.Errorf("failed to insert page %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.runID = id
	return nil
}

// RunService implements harvest.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*harvest.Run, error) {
	q := &runQuery{}
	q.where("r.id = ?", id)
	runs, err := s.findRuns(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	return runs[0], nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter harvest.RunFilter) ([]*harvest.Run, error) {
	q := &runQuery{}
	if filter.IDPrefix != nil {
		q.where(`r.id LIKE ? ESCAPE '\'`, likePrefix(*filter.IDPrefix))
	}
	if filter.StartURL != nil {
		q.where("r.start_url = ?", *filter.StartURL)
	}
	q.page(filter.Limit, filter.Offset)
	return s.findRuns(ctx, q)
}

func (s *RunService) findRuns(ctx context.Context, q *runQuery) ([]*harvest.Run, error) {
	query, args := q.build()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*harvest.Run{}
	for rows.Next() {
		var run harvest.Run
		var startedAt string
		if err := rows.Scan(&run.ID, &run.StartURL, &startedAt, &run.PageCount); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseTime("started_at", startedAt); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// FindRunResults returns the pages of a run in crawl order.
func (s *RunService) FindRunResults(ctx context.Context, runID string) ([]*harvest.PageResult, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT title, url, text_content FROM pages WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*harvest.PageResult{}
	for rows.Next() {
		var r harvest.PageResult
		if err := rows.Scan(&r.Title, &r.URL, &r.TextContent); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}
