package selection

import (
	"sort"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Section capacities. Deals additionally absorbs whatever the matching
// passes leave unassigned so the result is always a partition of the
// selected set.
const (
	topPicksSize = 5
	regionSize   = 10
	localitySize = 10
	dealsSize    = 10
)

// AssignSections partitions a selected candidate list into the digest
// sections. The first five by selection order are always the top picks; the
// remainder is filled by matching the user's home region, home locality and
// needs categories in that order. A missing home region falls back to the
// most frequent region among the selected jobs themselves.
func AssignSections(userID string, selected []Candidate, homeRegion, homeLocality string) *types.SelectionResult {
	result := &types.SelectionResult{UserID: userID}
	if len(selected) == 0 {
		return result
	}

	if homeRegion == "" {
		homeRegion = modalRegion(selected)
	}

	assigned := make([]types.Section, len(selected))
	for i := range assigned {
		assigned[i] = ""
	}

	take := func(limit int, section types.Section, match func(Candidate) bool) {
		n := 0
		for i, cand := range selected {
			if n >= limit {
				return
			}
			if assigned[i] != "" || !match(cand) {
				continue
			}
			assigned[i] = section
			n++
		}
	}

	take(topPicksSize, types.SectionTopPicks, func(Candidate) bool { return true })
	take(regionSize, types.SectionRegion, func(c Candidate) bool {
		return homeRegion != "" && c.RegionCode == homeRegion
	})
	take(localitySize, types.SectionLocality, func(c Candidate) bool {
		return homeLocality != "" && c.LocalityCode == homeLocality
	})
	take(dealsSize, types.SectionDeals, func(c Candidate) bool {
		return len(c.Categories) > 0
	})
	// Leftovers land in deals so every selected job ships.
	take(len(selected), types.SectionDeals, func(Candidate) bool { return true })

	for i, cand := range selected {
		result.Jobs = append(result.Jobs, types.SelectedJob{
			JobID:   cand.Score.JobID,
			Section: assigned[i],
			Score:   cand.Score,
		})
	}
	return result
}

// modalRegion is the most frequent region among the selected jobs, breaking
// ties on the smaller code.
func modalRegion(selected []Candidate) string {
	counts := make(map[string]int)
	for _, cand := range selected {
		if cand.RegionCode != "" {
			counts[cand.RegionCode]++
		}
	}
	regions := make([]string, 0, len(counts))
	for r := range counts {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	best := ""
	bestCount := 0
	for _, r := range regions {
		if counts[r] > bestCount {
			best = r
			bestCount = counts[r]
		}
	}
	return best
}
