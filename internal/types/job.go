// Package types defines the shared data model for the job matching engine.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// SalaryType identifies how a job's salary figures are denominated.
type SalaryType string

const (
	SalaryHourly     SalaryType = "hourly"
	SalaryDaily      SalaryType = "daily"
	SalaryMonthly    SalaryType = "monthly"
	SalaryCommission SalaryType = "commission"
)

// Job is an immutable snapshot of a job listing for one import cycle.
// Jobs are produced by the ingestion pipeline and are read-only here;
// the catalog is superseded daily by re-import.
type Job struct {
	ID             string     `json:"id" validate:"required"`
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description"`
	Requirements   string     `json:"requirements"`
	Benefits       string     `json:"benefits"`
	RegionCode     string     `json:"region_code" validate:"required"`
	LocalityCode   string     `json:"locality_code"`
	OccupationCode string     `json:"occupation_code" validate:"required"`
	EmploymentType string     `json:"employment_type"`
	SalaryMin      int        `json:"salary_min" validate:"gte=0"`
	SalaryMax      int        `json:"salary_max" validate:"gte=0"`
	SalaryType     SalaryType `json:"salary_type" validate:"required,oneof=hourly daily monthly commission"`
	FeatureCodes   []string   `json:"feature_codes"`
	AccessText     string     `json:"access_text"`
	NearestStation string     `json:"nearest_station"`
	PostedAt       time.Time  `json:"posted_at" validate:"required"`
	ClosesAt       time.Time  `json:"closes_at"`
	Fee            int        `json:"fee" validate:"gte=0"`
	CompanyID      string     `json:"company_id" validate:"required"`
}

var jobValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the job for structural integrity at the ingestion boundary.
// A job failing validation is skipped by the batch, never a fatal error.
func (j *Job) Validate() error {
	return jobValidator.Struct(j)
}

// SearchCorpus concatenates the free-text fields into one searchable string.
func (j *Job) SearchCorpus() string {
	return j.Title + "\n" + j.Description + "\n" + j.Requirements + "\n" + j.Benefits
}

// HasFeature reports whether the job carries the given feature code.
func (j *Job) HasFeature(code string) bool {
	for _, c := range j.FeatureCodes {
		if c == code {
			return true
		}
	}
	return false
}
