package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-match-engine/internal/types"
)

// LoadJobs reads the current job snapshot. Only listings that have not
// closed as of the snapshot are returned; structural validation happens
// downstream so a malformed row never aborts the load.
func (db *DB) LoadJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, requirements, benefits,
		        region_code, locality_code, occupation_code, employment_type,
		        salary_min, salary_max, salary_type, feature_codes,
		        access_text, nearest_station, posted_at, closes_at, fee, company_id
		 FROM jobs
		 WHERE closes_at IS NULL OR closes_at > NOW()
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var job types.Job
		var description, requirements, benefits, locality, employment, access, station *string
		var closesAt *time.Time
		if err := rows.Scan(
			&job.ID, &job.Title, &description, &requirements, &benefits,
			&job.RegionCode, &locality, &job.OccupationCode, &employment,
			&job.SalaryMin, &job.SalaryMax, &job.SalaryType, &job.FeatureCodes,
			&access, &station, &job.PostedAt, &closesAt, &job.Fee, &job.CompanyID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		job.Description = deref(description)
		job.Requirements = deref(requirements)
		job.Benefits = deref(benefits)
		job.LocalityCode = deref(locality)
		job.EmploymentType = deref(employment)
		job.AccessText = deref(access)
		job.NearestStation = deref(station)
		if closesAt != nil {
			job.ClosesAt = *closesAt
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// SaveJobScores bulk-writes the base scores for a run. The catalog is
// ~100k rows, so this goes through the COPY protocol instead of row
// inserts.
func (db *DB) SaveJobScores(ctx context.Context, runID uuid.UUID, scores []types.JobScore) error {
	_, err := db.pool.CopyFrom(ctx,
		pgx.Identifier{"job_scores"},
		[]string{"run_id", "job_id", "keyword", "feature", "salary", "freshness", "location", "company", "boost", "final"},
		pgx.CopyFromSlice(len(scores), func(i int) ([]any, error) {
			s := scores[i]
			return []any{runID, s.JobID, s.Keyword, s.Feature, s.Salary, s.Freshness, s.Location, s.Company, s.Boost, s.Final}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to save job scores: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
