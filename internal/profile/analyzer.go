package profile

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Salary band bounds relative to the median of historically applied
// salaries.
const (
	bandLowerRatio = 0.9
	bandUpperRatio = 1.3
)

// ErrNoHistory is returned by Build for users without any applications;
// callers fall back to Default.
var ErrNoHistory = fmt.Errorf("user has no application history")

// Build derives a profile from a user's application history. The profile is
// recomputed from scratch each run; a single-application user gets full
// weight 1.0 on every observed attribute and the is_initial flag.
func Build(userID string, history []types.ApplicationRecord) (*types.UserProfile, error) {
	if len(history) == 0 {
		return nil, ErrNoHistory
	}

	regionCounts := make(map[string]int)
	localityCounts := make(map[string]int)
	occupationCounts := make(map[string]int)
	featureCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	salaries := make([]int, 0, len(history))

	usable := false
	for _, app := range history {
		if app.RegionCode != "" {
			regionCounts[app.RegionCode]++
			usable = true
		}
		if app.LocalityCode != "" {
			localityCounts[app.LocalityCode]++
			usable = true
		}
		if app.OccupationCode != "" {
			occupationCounts[app.OccupationCode]++
			usable = true
		}
		for _, code := range app.FeatureCodes {
			featureCounts[code]++
			usable = true
		}
		for _, cat := range app.Categories {
			categoryCounts[cat]++
			usable = true
		}
		if app.Salary > 0 {
			salaries = append(salaries, app.Salary)
		}
	}
	if !usable {
		return nil, fmt.Errorf("application history for user %s carries no usable attributes", userID)
	}

	p := &types.UserProfile{
		UserID:            userID,
		RegionWeights:     NormalizeCounts(regionCounts),
		LocalityWeights:   NormalizeCounts(localityCounts),
		OccupationWeights: NormalizeCounts(occupationCounts),
		FeatureWeights:    NormalizeCounts(featureCounts),
		CategoryWeights:   NormalizeCounts(categoryCounts),
		IsInitial:         len(history) == 1,
		ApplicationCount:  len(history),
	}

	// One data point needs no normalization: every observed attribute gets
	// full weight.
	if p.IsInitial {
		setAll(p.RegionWeights, 1.0)
		setAll(p.LocalityWeights, 1.0)
		setAll(p.OccupationWeights, 1.0)
		setAll(p.FeatureWeights, 1.0)
		setAll(p.CategoryWeights, 1.0)
	}

	p.HomeRegion = argMax(p.RegionWeights)

	if len(salaries) > 0 {
		median := medianOf(salaries)
		p.SalaryBand = &types.SalaryBand{
			Min: int(math.Round(bandLowerRatio * median)),
			Max: int(math.Round(bandUpperRatio * median)),
		}
	}
	return p, nil
}

// Default builds the documented fallback profile for a user with zero
// application history: uniform weights across the regions, occupations and
// features observed in the current catalog, no salary band, no home region.
func Default(userID string, catalog []types.Job) *types.UserProfile {
	regionCounts := make(map[string]int)
	occupationCounts := make(map[string]int)
	featureCounts := make(map[string]int)
	for _, job := range catalog {
		if job.RegionCode != "" {
			regionCounts[job.RegionCode] = 1
		}
		if job.OccupationCode != "" {
			occupationCounts[job.OccupationCode] = 1
		}
		for _, code := range job.FeatureCodes {
			featureCounts[code] = 1
		}
	}

	return &types.UserProfile{
		UserID:            userID,
		RegionWeights:     NormalizeCounts(regionCounts),
		LocalityWeights:   map[string]float64{},
		OccupationWeights: NormalizeCounts(occupationCounts),
		FeatureWeights:    NormalizeCounts(featureCounts),
		CategoryWeights:   map[string]float64{},
		IsInitial:         true,
		ApplicationCount:  0,
	}
}

// Seeded builds a profile for a user with no application history but a
// legacy region-count seed. Region weights come from the seed; the other
// signals fall back to the same catalog-uniform defaults as Default.
func Seeded(userID string, regionCounts map[string]int, catalog []types.Job) *types.UserProfile {
	regionWeights := NormalizeCounts(regionCounts)
	if len(regionWeights) == 0 {
		return Default(userID, catalog)
	}

	p := Default(userID, catalog)
	p.RegionWeights = regionWeights
	p.HomeRegion = argMax(regionWeights)
	return p
}

// RejectedCompanies returns the companies that rejected the user at least
// threshold times. These are hard-excluded from the user's candidates.
func RejectedCompanies(history []types.ApplicationRecord, threshold int) map[string]bool {
	counts := make(map[string]int)
	for _, app := range history {
		if app.Outcome == types.OutcomeRejected && app.CompanyID != "" {
			counts[app.CompanyID]++
		}
	}
	excluded := make(map[string]bool)
	for company, n := range counts {
		if n >= threshold {
			excluded[company] = true
		}
	}
	return excluded
}

func setAll(weights map[string]float64, v float64) {
	for k := range weights {
		weights[k] = v
	}
}

// argMax returns the key with the highest weight, breaking ties on the
// smaller key so the result is stable across runs.
func argMax(weights map[string]float64) string {
	best := ""
	bestWeight := math.Inf(-1)
	for k, w := range weights {
		if w > bestWeight || (w == bestWeight && k < best) {
			best = k
			bestWeight = w
		}
	}
	return best
}

func medianOf(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
