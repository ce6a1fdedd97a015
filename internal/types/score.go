package types

// MaxFinalScore caps the base score range.
const MaxFinalScore = 999999

// JobScore is the context-free score of one job for one batch run.
// Final is deterministic given the job, the keyword index and a fixed
// wall-clock context.
type JobScore struct {
	JobID     string  `json:"job_id"`
	Keyword   float64 `json:"keyword"`
	Feature   float64 `json:"feature"`
	Salary    float64 `json:"salary"`
	Freshness float64 `json:"freshness"`
	Location  float64 `json:"location"`
	Company   float64 `json:"company"`
	Boost     float64 `json:"boost"`
	Final     int     `json:"final"`
}

// PersonalizedScore is a job's score adjusted for one user. The sub-scores
// and multiplier are retained for auditability of the ranking.
type PersonalizedScore struct {
	UserID          string  `json:"user_id"`
	JobID           string  `json:"job_id"`
	Base            int     `json:"base"`
	LocationMatch   float64 `json:"location_match"`
	OccupationMatch float64 `json:"occupation_match"`
	SalaryMatch     float64 `json:"salary_match"`
	FeatureMatch    float64 `json:"feature_match"`
	CategoryMatch   float64 `json:"category_match"`
	Multiplier      float64 `json:"multiplier"`
	Final           int     `json:"final"`
}
