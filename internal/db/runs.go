package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusTimedOut  = "timed_out"
)

// Run represents one matching run record
type Run struct {
	ID             uuid.UUID  `json:"id"`
	ScoringProfile string     `json:"scoring_profile"`
	Status         string     `json:"status"`
	JobsScored     int        `json:"jobs_scored"`
	UsersMatched   int        `json:"users_matched"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// CreateRun creates a new matching run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, scoringProfile string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO matching_runs (scoring_profile, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		scoringProfile,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a matching run as finished with its final counters
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, jobsScored, usersMatched int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE matching_runs
		 SET status = $1, jobs_scored = $2, users_matched = $3, completed_at = NOW()
		 WHERE id = $4`,
		status, jobsScored, usersMatched, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a matching run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, scoring_profile, status, jobs_scored, users_matched, created_at, completed_at
		 FROM matching_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.ScoringProfile, &run.Status, &run.JobsScored, &run.UsersMatched, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent matching runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, scoring_profile, status, jobs_scored, users_matched, created_at, completed_at
		 FROM matching_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ScoringProfile, &run.Status, &run.JobsScored, &run.UsersMatched, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
