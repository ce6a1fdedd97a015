package classify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-match-engine/internal/schemas"
	"github.com/jonathan/job-match-engine/internal/types"
)

// rulesSchemaPath locates the JSON Schema for rule files relative to the
// repo root.
const rulesSchemaPath = "schemas/category_rules.schema.json"

// LoadRules reads a category rule file, validates it against the rule
// schema, and checks each rule's payload. The rule set is static for the
// lifetime of a classification run.
func LoadRules(path string) ([]types.CategoryRule, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(rulesSchemaPath); schemaPath != "" {
		schemaContent, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules schema %s: %w", schemaPath, err)
		}
		if err := schemas.ValidateJSONString(string(schemaContent), string(content)); err != nil {
			return nil, fmt.Errorf("rules file %s failed schema validation: %w", path, err)
		}
	}

	var rules []types.CategoryRule
	if err := json.Unmarshal(content, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, fmt.Errorf("rules file %s: %w", path, err)
		}
	}
	return rules, nil
}

// DefaultRules returns the built-in rule set used when no rule file is
// supplied. Boosts feed the contextual category boost during base scoring.
func DefaultRules() []types.CategoryRule {
	return []types.CategoryRule{
		{
			Name: "daily_pay", Mode: types.RuleModeKeyword, Priority: 10, Boost: 1.2,
			Keyword: &types.KeywordRule{Keywords: []string{"日払い", "即日払い"}},
		},
		{
			Name: "daily_pay", Mode: types.RuleModeFeature, Priority: 10, Boost: 1.2,
			Feature: &types.FeatureRule{FeatureCodes: []string{"daily_pay"}},
		},
		{
			Name: "high_wage", Mode: types.RuleModeSalary, Priority: 9, Boost: 1.3,
			Salary: &types.SalaryRule{MinRatio: 1.2},
		},
		{
			Name: "weekly_pay", Mode: types.RuleModeKeyword, Priority: 8, Boost: 1.1,
			Keyword: &types.KeywordRule{Keywords: []string{"週払い"}},
		},
		{
			Name: "beginner_friendly", Mode: types.RuleModeKeyword, Priority: 7, Boost: 1.1,
			Keyword: &types.KeywordRule{Keywords: []string{"未経験歓迎", "未経験OK", "初心者歓迎"}},
		},
		{
			Name: "beginner_friendly", Mode: types.RuleModeFeature, Priority: 7, Boost: 1.1,
			Feature: &types.FeatureRule{FeatureCodes: []string{"beginner_ok"}},
		},
		{
			Name: "family_friendly", Mode: types.RuleModeCompound, Priority: 6, Boost: 1.1,
			Compound: &types.CompoundRule{Keywords: []string{"昼間", "日中", "主婦"}, StartHour: 9, EndHour: 15},
		},
		{
			Name: "short_term", Mode: types.RuleModeKeyword, Priority: 6, Boost: 1.0,
			Keyword: &types.KeywordRule{Keywords: []string{"短期", "単発"}},
		},
		{
			Name: "student_welcome", Mode: types.RuleModeKeyword, Priority: 5, Boost: 1.0,
			Keyword: &types.KeywordRule{Keywords: []string{"学生歓迎"}},
		},
		{
			Name: "station_near", Mode: types.RuleModeKeyword, Priority: 4, Boost: 1.0,
			Keyword: &types.KeywordRule{Keywords: []string{"駅チカ", "駅近"}},
		},
	}
}
