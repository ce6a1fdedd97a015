package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-match-engine/internal/types"
)

func TestContextualBoost_FactorsMultiply(t *testing.T) {
	// Monday 2026-06-08 12:00 in June: every factor neutral.
	neutral := time.Date(2026, 6, 8, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 1.0, contextualBoost(neutral, nil), 0.001)

	// Saturday morning in March: time 1.1 x weekday 1.1 x season 1.2.
	peak := time.Date(2026, 3, 7, 7, 0, 0, 0, time.UTC)
	assert.InDelta(t, 1.1*1.1*1.2, contextualBoost(peak, nil), 0.001)
}

func TestContextualBoost_CategoryFactorClamped(t *testing.T) {
	now := time.Date(2026, 6, 8, 12, 0, 0, 0, time.UTC)

	assignment := &types.JobCategoryAssignment{
		Categories: []types.CategoryMatch{
			{Name: "daily_pay", Boost: 1.2},
			{Name: "high_wage", Boost: 1.3},
		},
	}
	assert.InDelta(t, 1.3, contextualBoost(now, assignment), 0.001)

	// A runaway rule boost is clamped to the factor ceiling.
	assignment.Categories[0].Boost = 9.9
	assert.InDelta(t, boostMax, contextualBoost(now, assignment), 0.001)

	// Boosts below 1.0 never penalize.
	assignment.Categories = []types.CategoryMatch{{Name: "short_term", Boost: 0.5}}
	assert.InDelta(t, 1.0, contextualBoost(now, assignment), 0.001)
}

func TestContextualBoost_Bounds(t *testing.T) {
	// Worst realistic pile-up still stays within [1.0, 1.4] per factor.
	peak := time.Date(2026, 3, 7, 7, 0, 0, 0, time.UTC)
	assignment := &types.JobCategoryAssignment{
		Categories: []types.CategoryMatch{{Name: "high_wage", Boost: 1.4}},
	}
	boost := contextualBoost(peak, assignment)
	assert.LessOrEqual(t, boost, boostMax*boostMax*boostMax*boostMax)
	assert.GreaterOrEqual(t, boost, 1.0)
}
