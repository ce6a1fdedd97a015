// Package selection picks each user's final job set from their ranked
// candidates and partitions it into the digest sections.
package selection

import (
	"sort"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Selection defaults. The top of the ranking is admitted unconditionally so
// diversity never costs the user their best matches.
const (
	DefaultTargetSize = 40
	topUnconditional  = 10
)

// Caps bound how many selected jobs may share a needs category, an
// occupation or a region. The unconditional top tier still counts toward
// the counters.
type Caps struct {
	Category   int
	Occupation int
	Region     int
}

// DefaultCaps returns the standard per-attribute limits.
func DefaultCaps() Caps {
	return Caps{Category: 10, Occupation: 15, Region: 20}
}

// Candidate pairs a personalized score with the job attributes the
// diversity counters and section passes need.
type Candidate struct {
	Score          types.PersonalizedScore
	RegionCode     string
	LocalityCode   string
	OccupationCode string
	CompanyID      string
	Categories     []string
}

type counters struct {
	category   map[string]int
	occupation map[string]int
	region     map[string]int
}

func newCounters() *counters {
	return &counters{
		category:   make(map[string]int),
		occupation: make(map[string]int),
		region:     make(map[string]int),
	}
}

func (c *counters) fits(cand Candidate, caps Caps) bool {
	if cand.OccupationCode != "" && c.occupation[cand.OccupationCode]+1 > caps.Occupation {
		return false
	}
	if cand.RegionCode != "" && c.region[cand.RegionCode]+1 > caps.Region {
		return false
	}
	for _, cat := range cand.Categories {
		if c.category[cat]+1 > caps.Category {
			return false
		}
	}
	return true
}

func (c *counters) admit(cand Candidate) {
	if cand.OccupationCode != "" {
		c.occupation[cand.OccupationCode]++
	}
	if cand.RegionCode != "" {
		c.region[cand.RegionCode]++
	}
	for _, cat := range cand.Categories {
		c.category[cat]++
	}
}

// Select picks up to target candidates from the ranked list. The top ten are
// admitted unconditionally; the rest of the list is walked in rank order and
// a candidate is skipped when admitting it would push any counter past its
// cap. If one pass falls short of the target, a second relaxed pass appends
// the best remaining candidates regardless of caps. The result is shorter
// than target only when the candidates are exhausted.
func Select(candidates []Candidate, target int, caps Caps) []Candidate {
	if target <= 0 {
		return nil
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score.Final != ranked[j].Score.Final {
			return ranked[i].Score.Final > ranked[j].Score.Final
		}
		return ranked[i].Score.JobID < ranked[j].Score.JobID
	})

	selected := make([]Candidate, 0, target)
	taken := make(map[string]bool, target)
	tallies := newCounters()

	for _, cand := range ranked {
		if len(selected) >= target || len(selected) >= topUnconditional {
			break
		}
		selected = append(selected, cand)
		taken[cand.Score.JobID] = true
		tallies.admit(cand)
	}

	// Capped pass over the remainder of the ranking.
	for _, cand := range ranked {
		if len(selected) >= target {
			break
		}
		if taken[cand.Score.JobID] || !tallies.fits(cand, caps) {
			continue
		}
		selected = append(selected, cand)
		taken[cand.Score.JobID] = true
		tallies.admit(cand)
	}

	// Relaxed fill pass, best remaining first.
	for _, cand := range ranked {
		if len(selected) >= target {
			break
		}
		if taken[cand.Score.JobID] {
			continue
		}
		selected = append(selected, cand)
		taken[cand.Score.JobID] = true
	}

	return selected
}
