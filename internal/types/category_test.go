package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryRuleValidate_OnePayloadPerMode(t *testing.T) {
	rule := CategoryRule{
		Name:    "daily_pay",
		Mode:    RuleModeKeyword,
		Keyword: &KeywordRule{Keywords: []string{"日払い"}},
	}
	assert.NoError(t, rule.Validate())

	// Payload missing entirely
	rule = CategoryRule{Name: "daily_pay", Mode: RuleModeKeyword}
	assert.Error(t, rule.Validate())

	// Two payloads set
	rule = CategoryRule{
		Name:    "daily_pay",
		Mode:    RuleModeKeyword,
		Keyword: &KeywordRule{Keywords: []string{"日払い"}},
		Feature: &FeatureRule{FeatureCodes: []string{"daily_pay"}},
	}
	assert.Error(t, rule.Validate())
}

func TestCategoryRuleValidate_ModeSpecific(t *testing.T) {
	rule := CategoryRule{
		Name:   "high_wage",
		Mode:   RuleModeSalary,
		Salary: &SalaryRule{MinRatio: 0},
	}
	assert.Error(t, rule.Validate())

	rule.Salary.MinRatio = 1.2
	assert.NoError(t, rule.Validate())

	compound := CategoryRule{
		Name:     "family_friendly",
		Mode:     RuleModeCompound,
		Compound: &CompoundRule{Keywords: []string{"昼間"}, StartHour: 15, EndHour: 9},
	}
	assert.Error(t, compound.Validate())

	compound.Compound.StartHour = 9
	compound.Compound.EndHour = 15
	assert.NoError(t, compound.Validate())
}

func TestCategoryRuleValidate_UnknownMode(t *testing.T) {
	rule := CategoryRule{
		Name:    "mystery",
		Mode:    RuleMode("regex"),
		Keyword: &KeywordRule{Keywords: []string{"x"}},
	}
	assert.Error(t, rule.Validate())
}

func TestJobCategoryAssignment_Lookups(t *testing.T) {
	a := JobCategoryAssignment{
		JobID: "job_001",
		Categories: []CategoryMatch{
			{Name: "daily_pay", Confidence: 90},
			{Name: "beginner_friendly", Confidence: 60},
		},
		Occupation: "food_service",
	}
	assert.True(t, a.HasCategory("daily_pay"))
	assert.False(t, a.HasCategory("high_wage"))
	assert.Equal(t, []string{"daily_pay", "beginner_friendly"}, a.CategoryNames())
}
