package scoring

import (
	"math"
	"time"

	"github.com/jonathan/job-match-engine/internal/keywords"
	"github.com/jonathan/job-match-engine/internal/stats"
	"github.com/jonathan/job-match-engine/internal/types"
)

// Context pins the wall-clock inputs of a scoring run. Scores are
// deterministic for a fixed context: re-running with the same snapshot,
// index and context yields identical results.
type Context struct {
	Now time.Time
}

// Calculator computes base scores. It is immutable after construction and
// safe for concurrent use across workers.
type Calculator struct {
	weights Weights
	index   *keywords.Index
	shared  *stats.Shared
}

// NewCalculator builds a calculator for one batch run.
func NewCalculator(weights Weights, index *keywords.Index, shared *stats.Shared) *Calculator {
	return &Calculator{weights: weights, index: index, shared: shared}
}

// Score computes the six component scores, applies the profile weights and
// the contextual boost, and clamps the final score to [0, MaxFinalScore].
func (c *Calculator) Score(job *types.Job, assignment *types.JobCategoryAssignment, ctx Context) types.JobScore {
	score := types.JobScore{
		JobID:     job.ID,
		Keyword:   keywordScore(job, c.index, assignment),
		Feature:   featureScore(job),
		Salary:    salaryScore(job, c.shared),
		Freshness: freshnessScore(job, ctx.Now),
		Location:  locationScore(job),
		Company:   companyScore(job, c.shared),
	}

	weighted := score.Keyword*c.weights.Keyword +
		score.Feature*c.weights.Feature +
		score.Salary*c.weights.Salary +
		score.Freshness*c.weights.Freshness +
		score.Location*c.weights.Location +
		score.Company*c.weights.Company

	score.Boost = contextualBoost(ctx.Now, assignment)

	final := int(math.Round(weighted * score.Boost * 1000))
	if final < 0 {
		final = 0
	}
	if final > types.MaxFinalScore {
		final = types.MaxFinalScore
	}
	score.Final = final
	return score
}
