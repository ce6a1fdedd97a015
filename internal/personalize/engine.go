// Package personalize combines a job's base score with a user's preference
// profile into a personalized score.
package personalize

import (
	"math"

	"github.com/jonathan/job-match-engine/internal/stats"
	"github.com/jonathan/job-match-engine/internal/types"
)

// Importance weights of the five match signals. Their sum bounds the
// multiplier at 2.0; a job with zero preference alignment keeps its
// unmodified base score.
const (
	locationImportance   = 0.40
	occupationImportance = 0.30
	salaryImportance     = 0.15
	featureImportance    = 0.10
	categoryImportance   = 0.05
)

// Blend of region and locality inside the location match.
const (
	regionBlend   = 0.7
	localityBlend = 0.3
)

// neutralSalaryMatch applies when the profile has no salary band to compare
// against.
const neutralSalaryMatch = 0.5

// adjacentRegionCredit is the fraction of the home-region weight granted to
// a job in a prefecture bordering the user's home region, when the job's own
// region carries no weight.
const adjacentRegionCredit = 0.5

// Score personalizes one base-scored job for one user. Every sub-score is
// in [0, 1] and the multiplier in [1.0, 2.0]. shared supplies the prefecture
// adjacency table; nil disables the neighboring-region credit.
func Score(base types.JobScore, job *types.Job, assignment *types.JobCategoryAssignment, user *types.UserProfile, shared *stats.Shared) types.PersonalizedScore {
	s := types.PersonalizedScore{
		UserID:          user.UserID,
		JobID:           job.ID,
		Base:            base.Final,
		LocationMatch:   locationMatch(job, user, shared),
		OccupationMatch: clamp01(user.OccupationWeights[job.OccupationCode]),
		SalaryMatch:     salaryMatch(job, user),
		FeatureMatch:    featureMatch(job, user),
		CategoryMatch:   categoryMatch(assignment, user),
	}

	s.Multiplier = 1.0 +
		s.LocationMatch*locationImportance +
		s.OccupationMatch*occupationImportance +
		s.SalaryMatch*salaryImportance +
		s.FeatureMatch*featureImportance +
		s.CategoryMatch*categoryImportance

	s.Final = int(math.Round(float64(base.Final) * s.Multiplier))
	return s
}

func locationMatch(job *types.Job, user *types.UserProfile, shared *stats.Shared) float64 {
	region := user.RegionWeights[job.RegionCode]
	if region == 0 && shared != nil && user.HomeRegion != "" && shared.Adjacent(job.RegionCode, user.HomeRegion) {
		region = adjacentRegionCredit * user.RegionWeights[user.HomeRegion]
	}
	locality := user.LocalityWeights[job.LocalityCode]
	return clamp01(regionBlend*region + localityBlend*locality)
}

// salaryMatch is 1.0 inside the preferred band and falls off linearly with
// the distance from the nearest band edge, relative to that edge.
func salaryMatch(job *types.Job, user *types.UserProfile) float64 {
	if user.SalaryBand == nil || job.SalaryMin <= 0 {
		return neutralSalaryMatch
	}
	band := *user.SalaryBand
	if band.Contains(job.SalaryMin) {
		return 1.0
	}

	var edge, dist float64
	if job.SalaryMin < band.Min {
		edge = float64(band.Min)
		dist = edge - float64(job.SalaryMin)
	} else {
		edge = float64(band.Max)
		dist = float64(job.SalaryMin) - edge
	}
	if edge <= 0 {
		return 0
	}
	return clamp01(1.0 - dist/edge)
}

// featureMatch sums the user's feature weights over the job's feature set,
// capped at 1.0.
func featureMatch(job *types.Job, user *types.UserProfile) float64 {
	total := 0.0
	for _, code := range job.FeatureCodes {
		total += user.FeatureWeights[code]
	}
	return clamp01(total)
}

// categoryMatch is the overlap between the job's needs categories and the
// user's historically observed category preference.
func categoryMatch(assignment *types.JobCategoryAssignment, user *types.UserProfile) float64 {
	if assignment == nil {
		return 0
	}
	total := 0.0
	for _, c := range assignment.Categories {
		total += user.CategoryWeights[c.Name]
	}
	return clamp01(total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
