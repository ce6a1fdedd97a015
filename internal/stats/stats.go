// Package stats computes the shared read-only statistics for one batch run:
// regional salary means, company activity, and prefecture adjacency. The
// result is computed once before the scoring barrier and passed by reference
// into all workers; nothing here is mutated afterwards.
package stats

import (
	"time"

	"github.com/jonathan/job-match-engine/internal/types"
)

// minCellSamples is the sample floor below which a (region, salary type,
// occupation) cell falls back to its region-level aggregate.
const minCellSamples = 5

// SalaryKey addresses one regional salary cell.
type SalaryKey struct {
	Region     string
	SalaryType types.SalaryType
	Occupation string
}

// SalaryCell is the aggregate for one salary key.
type SalaryCell struct {
	Mean    float64
	Samples int
}

// CompanyStats summarizes a company's activity in the current snapshot and
// application log.
type CompanyStats struct {
	ActiveListings  int
	Applications    int
	ApplicationRate float64
	ZeroFee         bool
}

// Shared holds all cross-user statistics for a run. Safe for concurrent
// reads once Compute returns.
type Shared struct {
	salary    map[SalaryKey]SalaryCell
	companies map[string]CompanyStats
	adjacency map[string][]string

	ComputedAt time.Time
}

// Compute builds the shared statistics from the job snapshot and the full
// application log.
func Compute(jobs []types.Job, applications []types.ApplicationRecord, now time.Time) *Shared {
	s := &Shared{
		salary:     make(map[SalaryKey]SalaryCell),
		companies:  make(map[string]CompanyStats),
		adjacency:  prefectureAdjacency,
		ComputedAt: now,
	}

	type acc struct {
		sum     float64
		samples int
	}
	cells := make(map[SalaryKey]*acc)
	add := func(key SalaryKey, salary int) {
		a := cells[key]
		if a == nil {
			a = &acc{}
			cells[key] = a
		}
		a.sum += float64(salary)
		a.samples++
	}

	feeTotals := make(map[string]int)
	for _, job := range jobs {
		if job.SalaryMin > 0 {
			// Full cell, region-level fallback cell and per-type global cell.
			add(SalaryKey{Region: job.RegionCode, SalaryType: job.SalaryType, Occupation: job.OccupationCode}, job.SalaryMin)
			add(SalaryKey{Region: job.RegionCode, SalaryType: job.SalaryType}, job.SalaryMin)
			add(SalaryKey{SalaryType: job.SalaryType}, job.SalaryMin)
		}

		c := s.companies[job.CompanyID]
		c.ActiveListings++
		s.companies[job.CompanyID] = c
		feeTotals[job.CompanyID] += job.Fee
	}

	for key, a := range cells {
		s.salary[key] = SalaryCell{Mean: a.sum / float64(a.samples), Samples: a.samples}
	}

	for _, app := range applications {
		if app.CompanyID == "" {
			continue
		}
		c := s.companies[app.CompanyID]
		c.Applications++
		s.companies[app.CompanyID] = c
	}

	for id, c := range s.companies {
		if c.ActiveListings > 0 {
			c.ApplicationRate = float64(c.Applications) / float64(c.ActiveListings)
		}
		c.ZeroFee = feeTotals[id] == 0
		s.companies[id] = c
	}

	return s
}

// RegionalMeanSalary returns the mean minimum salary for the cell, falling
// back from (region, type, occupation) to (region, type) to (type) when a
// cell is missing or too sparse. The second return is false only when no
// level has data.
func (s *Shared) RegionalMeanSalary(region string, salaryType types.SalaryType, occupation string) (float64, bool) {
	keys := []SalaryKey{
		{Region: region, SalaryType: salaryType, Occupation: occupation},
		{Region: region, SalaryType: salaryType},
		{SalaryType: salaryType},
	}
	for i, key := range keys {
		cell, ok := s.salary[key]
		if !ok {
			continue
		}
		// The most specific cell must clear the sample floor; fallbacks are
		// accepted as-is since they aggregate more data by construction.
		if i == 0 && cell.Samples < minCellSamples {
			continue
		}
		if cell.Samples > 0 {
			return cell.Mean, true
		}
	}
	return 0, false
}

// Company returns the activity stats for a company id.
func (s *Shared) Company(id string) (CompanyStats, bool) {
	c, ok := s.companies[id]
	return c, ok
}

// Adjacent reports whether two region codes are neighboring prefectures.
func (s *Shared) Adjacent(a, b string) bool {
	for _, n := range s.adjacency[a] {
		if n == b {
			return true
		}
	}
	return false
}
