package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Harvest run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// HarvestRun records one scrape-and-ingest cycle
type HarvestRun struct {
	ID          uuid.UUID  `json:"id"`
	Query       string     `json:"query"`
	Status      string     `json:"status"`
	Received    int        `json:"received"`
	Persisted   int        `json:"persisted"`
	Skipped     int        `json:"skipped"`
	Dropped     int        `json:"dropped"`
	Failed      int        `json:"failed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunCounts carries the outcome tallies written on completion
type RunCounts struct {
	Received  int
	Persisted int
	Skipped   int
	Dropped   int
	Failed    int
}

// CreateRun records the start of a harvest cycle and returns its ID
func (db *DB) CreateRun(ctx context.Context, query string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO harvest_runs (id, query, status) VALUES ($1, $2, $3)`,
		id, query, RunStatusRunning,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a harvest run finished and stores its counts
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, counts RunCounts) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE harvest_runs
		 SET status = $1, received = $2, persisted = $3, skipped = $4,
		     dropped = $5, failed = $6, completed_at = NOW()
		 WHERE id = $7`,
		status, counts.Received, counts.Persisted, counts.Skipped,
		counts.Dropped, counts.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}
