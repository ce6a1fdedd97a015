package types

import "time"

// ApplicationOutcome is the terminal state of a past application.
type ApplicationOutcome string

const (
	OutcomeApplied  ApplicationOutcome = "applied"
	OutcomeRejected ApplicationOutcome = "rejected"
	OutcomeHired    ApplicationOutcome = "hired"
)

// ApplicationRecord is one entry of a user's append-only application log.
// The job attributes are denormalized at application time so the history
// stays meaningful after the job leaves the catalog.
type ApplicationRecord struct {
	UserID         string             `json:"user_id"`
	JobID          string             `json:"job_id"`
	CompanyID      string             `json:"company_id"`
	RegionCode     string             `json:"region_code"`
	LocalityCode   string             `json:"locality_code"`
	OccupationCode string             `json:"occupation_code"`
	FeatureCodes   []string           `json:"feature_codes"`
	Categories     []string           `json:"categories"`
	Salary         int                `json:"salary"`
	SalaryType     SalaryType         `json:"salary_type"`
	Outcome        ApplicationOutcome `json:"outcome"`
	AppliedAt      time.Time          `json:"applied_at"`
}

// SalaryBand is a user's preferred salary range.
type SalaryBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether the salary falls inside the band (inclusive).
func (b SalaryBand) Contains(salary int) bool {
	return salary >= b.Min && salary <= b.Max
}

// UserProfile is derived from a user's application history: normalized
// preference-weight maps per signal plus an inferred salary band and home
// region. Profiles are rebuilt from scratch each run, never mutated.
type UserProfile struct {
	UserID            string             `json:"user_id"`
	RegionWeights     map[string]float64 `json:"region_weights"`
	LocalityWeights   map[string]float64 `json:"locality_weights"`
	OccupationWeights map[string]float64 `json:"occupation_weights"`
	FeatureWeights    map[string]float64 `json:"feature_weights"`
	CategoryWeights   map[string]float64 `json:"category_weights"`
	SalaryBand        *SalaryBand        `json:"salary_band,omitempty"`
	HomeRegion        string             `json:"home_region"`
	IsInitial         bool               `json:"is_initial"`
	ApplicationCount  int                `json:"application_count"`
}
