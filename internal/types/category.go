package types

import "fmt"

// RuleMode selects the matching strategy of a CategoryRule.
type RuleMode string

const (
	RuleModeKeyword  RuleMode = "keyword"
	RuleModeFeature  RuleMode = "feature"
	RuleModeSalary   RuleMode = "salary"
	RuleModeCompound RuleMode = "compound"
)

// KeywordRule matches keyword occurrences in the job's free text,
// subject to negation suppression around each hit.
type KeywordRule struct {
	Keywords []string `json:"keywords"`
}

// FeatureRule matches by set membership against the job's feature codes.
// Feature codes are pre-normalized, so no negation check applies.
type FeatureRule struct {
	FeatureCodes []string `json:"feature_codes"`
}

// SalaryRule matches when the job's minimum salary clears a multiple of the
// regional mean for its (region, salary type, occupation) cell.
type SalaryRule struct {
	MinRatio float64 `json:"min_ratio"`
}

// CompoundRule requires both a keyword hit and the job's parsed shift window
// falling inside [StartHour, EndHour].
type CompoundRule struct {
	Keywords  []string `json:"keywords"`
	StartHour int      `json:"start_hour"`
	EndHour   int      `json:"end_hour"`
}

// CategoryRule assigns a needs category to jobs that satisfy one of four
// matching modes. Exactly one payload field corresponding to Mode is set.
type CategoryRule struct {
	Name     string   `json:"name"`
	Mode     RuleMode `json:"mode"`
	Priority int      `json:"priority"`
	Boost    float64  `json:"boost"`

	Keyword  *KeywordRule  `json:"keyword,omitempty"`
	Feature  *FeatureRule  `json:"feature,omitempty"`
	Salary   *SalaryRule   `json:"salary,omitempty"`
	Compound *CompoundRule `json:"compound,omitempty"`
}

// Validate checks that the rule carries the payload its mode requires and
// nothing else.
func (r *CategoryRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("category rule has empty name")
	}
	set := 0
	if r.Keyword != nil {
		set++
	}
	if r.Feature != nil {
		set++
	}
	if r.Salary != nil {
		set++
	}
	if r.Compound != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("category rule %q must have exactly one payload, has %d", r.Name, set)
	}

	switch r.Mode {
	case RuleModeKeyword:
		if r.Keyword == nil || len(r.Keyword.Keywords) == 0 {
			return fmt.Errorf("keyword rule %q has no keywords", r.Name)
		}
	case RuleModeFeature:
		if r.Feature == nil || len(r.Feature.FeatureCodes) == 0 {
			return fmt.Errorf("feature rule %q has no feature codes", r.Name)
		}
	case RuleModeSalary:
		if r.Salary == nil || r.Salary.MinRatio <= 0 {
			return fmt.Errorf("salary rule %q needs a positive min ratio", r.Name)
		}
	case RuleModeCompound:
		if r.Compound == nil || len(r.Compound.Keywords) == 0 {
			return fmt.Errorf("compound rule %q has no keywords", r.Name)
		}
		if r.Compound.StartHour < 0 || r.Compound.EndHour > 24 || r.Compound.StartHour >= r.Compound.EndHour {
			return fmt.Errorf("compound rule %q has invalid shift window [%d, %d]", r.Name, r.Compound.StartHour, r.Compound.EndHour)
		}
	default:
		return fmt.Errorf("category rule %q has unknown mode %q", r.Name, r.Mode)
	}
	return nil
}

// CategoryMatch is one matched needs category with its confidence.
type CategoryMatch struct {
	Name       string  `json:"name"`
	Confidence int     `json:"confidence"`
	Priority   int     `json:"priority"`
	Boost      float64 `json:"boost"`
}

// JobCategoryAssignment is the classifier output for one job: all matched
// needs categories (possibly none) plus exactly one occupation category.
type JobCategoryAssignment struct {
	JobID      string          `json:"job_id"`
	Categories []CategoryMatch `json:"categories"`
	Occupation string          `json:"occupation"`
}

// HasCategory reports whether the assignment contains the named needs category.
func (a *JobCategoryAssignment) HasCategory(name string) bool {
	for _, c := range a.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CategoryNames returns the matched needs-category names in ranked order.
func (a *JobCategoryAssignment) CategoryNames() []string {
	names := make([]string, 0, len(a.Categories))
	for _, c := range a.Categories {
		names = append(names, c.Name)
	}
	return names
}
