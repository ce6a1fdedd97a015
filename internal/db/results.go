package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/job-match-engine/internal/types"
)

// SaveSelectionResult writes one user's selection for a run in a single
// transaction. A user either gets their complete selection or nothing;
// re-running for the same (run, user) replaces the previous rows.
func (db *DB) SaveSelectionResult(ctx context.Context, runID uuid.UUID, result *types.SelectionResult) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`DELETE FROM selection_results WHERE run_id = $1 AND user_id = $2`,
		runID, result.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear previous selection: %w", err)
	}

	for position, job := range result.Jobs {
		_, err = tx.Exec(ctx,
			`INSERT INTO selection_results
			   (run_id, user_id, job_id, section, position,
			    base_score, multiplier, final_score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			runID, result.UserID, job.JobID, string(job.Section), position,
			job.Score.Base, job.Score.Multiplier, job.Score.Final,
		)
		if err != nil {
			return fmt.Errorf("failed to insert selection row for job %s: %w", job.JobID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit selection for user %s: %w", result.UserID, err)
	}
	return nil
}

// LoadSelectionResult reads back a user's selection for a run, in stored
// order. Returns nil when the user has no rows for that run.
func (db *DB) LoadSelectionResult(ctx context.Context, runID uuid.UUID, userID string) (*types.SelectionResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_id, section, base_score, multiplier, final_score
		 FROM selection_results
		 WHERE run_id = $1 AND user_id = $2
		 ORDER BY position`,
		runID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection for user %s: %w", userID, err)
	}
	defer rows.Close()

	result := &types.SelectionResult{UserID: userID}
	for rows.Next() {
		var job types.SelectedJob
		var section string
		if err := rows.Scan(&job.JobID, &section, &job.Score.Base, &job.Score.Multiplier, &job.Score.Final); err != nil {
			return nil, fmt.Errorf("failed to scan selection row: %w", err)
		}
		job.Section = types.Section(section)
		job.Score.UserID = userID
		job.Score.JobID = job.JobID
		result.Jobs = append(result.Jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result.Jobs) == 0 {
		return nil, nil
	}
	return result, nil
}
