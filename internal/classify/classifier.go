package classify

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/jonathan/job-match-engine/internal/stats"
	"github.com/jonathan/job-match-engine/internal/types"
)

// Confidence scoring constants. A match starts at the base, earns +10 per
// extra keyword hit (capped), +20 for a title hit, is lifted to at least 90
// when a feature-code match corroborates it, and never exceeds 100.
const (
	confidenceBase         = 50
	confidencePerExtraHit  = 10
	confidenceExtraHitCap  = 30
	confidenceTitleBonus   = 20
	confidenceCorroborated = 90
	confidenceMax          = 100

	confidenceFeature = 80
	confidenceSalary  = 70
)

// shiftPattern extracts a HH:MM-HH:MM shift window from free text.
var shiftPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-~〜ー]\s*(\d{1,2}):(\d{2})`)

// Classifier evaluates the static rule list against jobs. It is immutable
// after construction and safe for concurrent use.
type Classifier struct {
	rules  []types.CategoryRule
	shared *stats.Shared
}

// New creates a classifier over the given rules. The shared statistics feed
// salary-comparison rules; they are read-only here.
func New(rules []types.CategoryRule, shared *stats.Shared) *Classifier {
	return &Classifier{rules: rules, shared: shared}
}

// Classify assigns needs categories and the occupation category to one job.
// A job matching zero needs categories is valid and yields an empty list.
func (c *Classifier) Classify(job *types.Job) types.JobCategoryAssignment {
	corpus := job.SearchCorpus()

	type candidate struct {
		match         types.CategoryMatch
		keywordBacked bool
		featureBacked bool
	}
	byName := make(map[string]*candidate)

	for _, rule := range c.rules {
		confidence, viaKeyword, ok := c.evalRule(&rule, job, corpus)
		if !ok {
			continue
		}

		cand := byName[rule.Name]
		if cand == nil {
			cand = &candidate{match: types.CategoryMatch{
				Name:     rule.Name,
				Priority: rule.Priority,
				Boost:    rule.Boost,
			}}
			byName[rule.Name] = cand
		}
		if confidence > cand.match.Confidence {
			cand.match.Confidence = confidence
		}
		if rule.Priority > cand.match.Priority {
			cand.match.Priority = rule.Priority
		}
		if rule.Boost > cand.match.Boost {
			cand.match.Boost = rule.Boost
		}
		if viaKeyword {
			cand.keywordBacked = true
		}
		if rule.Mode == types.RuleModeFeature {
			cand.featureBacked = true
		}
	}

	matches := make([]types.CategoryMatch, 0, len(byName))
	for _, cand := range byName {
		if cand.keywordBacked && cand.featureBacked && cand.match.Confidence < confidenceCorroborated {
			cand.match.Confidence = confidenceCorroborated
		}
		if cand.match.Confidence > confidenceMax {
			cand.match.Confidence = confidenceMax
		}
		matches = append(matches, cand.match)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority > matches[j].Priority
		}
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Name < matches[j].Name
	})

	return types.JobCategoryAssignment{
		JobID:      job.ID,
		Categories: matches,
		Occupation: LookupOccupation(job.OccupationCode),
	}
}

// evalRule evaluates one rule against one job. It returns the confidence,
// whether the match was keyword-driven, and whether the rule matched at all.
func (c *Classifier) evalRule(rule *types.CategoryRule, job *types.Job, corpus string) (int, bool, bool) {
	switch rule.Mode {
	case types.RuleModeKeyword:
		conf, ok := keywordConfidence(rule.Keyword.Keywords, job.Title, corpus)
		return conf, true, ok

	case types.RuleModeFeature:
		for _, code := range rule.Feature.FeatureCodes {
			if job.HasFeature(code) {
				return confidenceFeature, false, true
			}
		}
		return 0, false, false

	case types.RuleModeSalary:
		if c.shared == nil || job.SalaryMin <= 0 {
			return 0, false, false
		}
		mean, ok := c.shared.RegionalMeanSalary(job.RegionCode, job.SalaryType, job.OccupationCode)
		if !ok || mean <= 0 {
			return 0, false, false
		}
		if float64(job.SalaryMin) >= rule.Salary.MinRatio*mean {
			return confidenceSalary, false, true
		}
		return 0, false, false

	case types.RuleModeCompound:
		conf, ok := keywordConfidence(rule.Compound.Keywords, job.Title, corpus)
		if !ok {
			return 0, false, false
		}
		start, end, found := parseShiftWindow(corpus)
		if !found || start < rule.Compound.StartHour || end > rule.Compound.EndHour {
			return 0, false, false
		}
		return conf, true, true
	}
	return 0, false, false
}

// keywordConfidence applies the confidence formula over all keywords of a
// rule: 50 base, +10 per extra hit capped at +30, +20 for a title hit.
func keywordConfidence(keywords []string, title, corpus string) (int, bool) {
	totalHits := 0
	titleHit := false
	for _, kw := range keywords {
		totalHits += keywordHits(corpus, kw)
		if keywordHits(title, kw) > 0 {
			titleHit = true
		}
	}
	if totalHits == 0 {
		return 0, false
	}

	conf := confidenceBase
	extra := (totalHits - 1) * confidencePerExtraHit
	if extra > confidenceExtraHitCap {
		extra = confidenceExtraHitCap
	}
	conf += extra
	if titleHit {
		conf += confidenceTitleBonus
	}
	if conf > confidenceMax {
		conf = confidenceMax
	}
	return conf, true
}

// parseShiftWindow extracts the first HH:MM-HH:MM range from the corpus and
// returns its start and end hours. Minutes past the hour round the end up.
func parseShiftWindow(corpus string) (int, int, bool) {
	m := shiftPattern.FindStringSubmatch(corpus)
	if m == nil {
		return 0, 0, false
	}
	startH, _ := strconv.Atoi(m[1])
	endH, _ := strconv.Atoi(m[3])
	endM, _ := strconv.Atoi(m[4])
	if endM > 0 {
		endH++
	}
	if startH > 23 || endH > 24 {
		return 0, 0, false
	}
	return startH, endH, true
}
