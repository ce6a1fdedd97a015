package db

import (
	"context"
	"fmt"

	"github.com/jonathan/job-match-engine/internal/types"
)

// ListActiveUserIDs returns the users eligible for a matching run, in a
// stable order so chunking is reproducible.
func (db *DB) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id FROM users WHERE active ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadApplicationHistory reads a user's append-only application log, oldest
// first.
func (db *DB) LoadApplicationHistory(ctx context.Context, userID string) ([]types.ApplicationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, job_id, company_id, region_code, locality_code,
		        occupation_code, feature_codes, categories,
		        salary, salary_type, outcome, applied_at
		 FROM applications
		 WHERE user_id = $1
		 ORDER BY applied_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load application history for %s: %w", userID, err)
	}
	defer rows.Close()

	var history []types.ApplicationRecord
	for rows.Next() {
		var rec types.ApplicationRecord
		var locality, occupation *string
		if err := rows.Scan(
			&rec.UserID, &rec.JobID, &rec.CompanyID, &rec.RegionCode, &locality,
			&occupation, &rec.FeatureCodes, &rec.Categories,
			&rec.Salary, &rec.SalaryType, &rec.Outcome, &rec.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		rec.LocalityCode = deref(locality)
		rec.OccupationCode = deref(occupation)
		history = append(history, rec)
	}
	return history, rows.Err()
}

// LoadAllApplications reads every application record. The shared statistics
// pass needs the full log for company application rates.
func (db *DB) LoadAllApplications(ctx context.Context) ([]types.ApplicationRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, job_id, company_id, region_code, locality_code,
		        occupation_code, feature_codes, categories,
		        salary, salary_type, outcome, applied_at
		 FROM applications
		 ORDER BY applied_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	defer rows.Close()

	var all []types.ApplicationRecord
	for rows.Next() {
		var rec types.ApplicationRecord
		var locality, occupation *string
		if err := rows.Scan(
			&rec.UserID, &rec.JobID, &rec.CompanyID, &rec.RegionCode, &locality,
			&occupation, &rec.FeatureCodes, &rec.Categories,
			&rec.Salary, &rec.SalaryType, &rec.Outcome, &rec.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		rec.LocalityCode = deref(locality)
		rec.OccupationCode = deref(occupation)
		all = append(all, rec)
	}
	return all, rows.Err()
}
