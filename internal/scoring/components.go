package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-match-engine/internal/keywords"
	"github.com/jonathan/job-match-engine/internal/stats"
	"github.com/jonathan/job-match-engine/internal/types"
)

// Match-type weights for the keyword component.
const (
	matchWeightExact    = 100.0
	matchWeightPartial  = 50.0
	matchWeightCategory = 30.0
)

// componentMax bounds every component score so profile weights compare like
// with like.
const componentMax = 100.0

// neutralSalaryScore is used when no regional mean exists for the job's cell.
const neutralSalaryScore = 50.0

// keywordScore accumulates keyword-index contributions: an exact title match
// weighs 100, a hit elsewhere in the free text 50, and a match against the
// job's assigned categories 30. Each contribution is scaled by search volume
// and damped by competitiveness.
func keywordScore(job *types.Job, index *keywords.Index, assignment *types.JobCategoryAssignment) float64 {
	if index == nil || index.Len() == 0 {
		return 0
	}

	bodyText := job.Description + "\n" + job.Requirements + "\n" + job.Benefits
	total := 0.0
	for _, entry := range index.Entries() {
		weight := 0.0
		switch {
		case strings.Contains(job.Title, entry.Text):
			weight = matchWeightExact
		case strings.Contains(bodyText, entry.Text):
			weight = matchWeightPartial
		case assignment != nil && categoryMatchesKeyword(assignment, entry.Text):
			weight = matchWeightCategory
		default:
			continue
		}

		volumeFactor := math.Log10(float64(entry.Volume)+1) / 5
		difficultyFactor := float64(100-entry.Difficulty) / 100
		total += weight * volumeFactor * difficultyFactor
	}
	return clampComponent(total)
}

func categoryMatchesKeyword(assignment *types.JobCategoryAssignment, keyword string) bool {
	if assignment.Occupation == keyword {
		return true
	}
	return assignment.HasCategory(keyword)
}

// featurePoints is the fixed point table for known feature codes. Codes not
// listed still earn the default so a richly tagged job outranks a bare one.
var featurePoints = map[string]float64{
	"daily_pay":        15,
	"weekly_pay":       10,
	"beginner_ok":      10,
	"flexible_shift":   10,
	"remote_ok":        12,
	"station_near":     8,
	"transport_paid":   8,
	"car_commute":      6,
	"meal_support":     6,
	"uniform_provided": 4,
}

const defaultFeaturePoints = 5.0

// featureScore sums the point table over the job's feature codes and adds a
// count bonus of 5 points per feature capped at 50.
func featureScore(job *types.Job) float64 {
	total := 0.0
	for _, code := range job.FeatureCodes {
		if pts, ok := featurePoints[code]; ok {
			total += pts
		} else {
			total += defaultFeaturePoints
		}
	}
	bonus := 5.0 * float64(len(job.FeatureCodes))
	if bonus > 50 {
		bonus = 50
	}
	return clampComponent(total + bonus)
}

// salaryScore maps the ratio of the job's minimum salary to the regional
// mean through a piecewise-linear S-curve into [0, 100], then applies the
// salary-type adjustment.
func salaryScore(job *types.Job, shared *stats.Shared) float64 {
	if shared == nil || job.SalaryMin <= 0 {
		return neutralSalaryScore
	}
	mean, ok := shared.RegionalMeanSalary(job.RegionCode, job.SalaryType, job.OccupationCode)
	if !ok || mean <= 0 {
		return neutralSalaryScore
	}

	ratio := float64(job.SalaryMin) / mean
	var score float64
	switch {
	case ratio < 0.8:
		score = ratio / 0.8 * 20
	case ratio <= 1.2:
		score = 20 + (ratio-0.8)/0.4*60
	default:
		score = 80 + (ratio-1.2)*50
		if score > 100 {
			score = 100
		}
	}

	switch job.SalaryType {
	case types.SalaryDaily:
		score *= 0.9
	case types.SalaryMonthly:
		score *= 0.8
	case types.SalaryCommission:
		score *= 1.1
	}
	return clampComponent(score)
}

// freshnessScore rewards recently posted listings and penalizes imminent
// deadlines. Floored at zero.
func freshnessScore(job *types.Job, now time.Time) float64 {
	daysSince := int(now.Sub(job.PostedAt).Hours() / 24)
	if daysSince < 0 {
		daysSince = 0
	}

	score := float64(50 - daysSince)
	if score < 0 {
		score = 0
	}

	switch {
	case daysSince <= 3:
		score += 50
	case daysSince <= 7:
		score += 30
	case daysSince <= 14:
		score += 10
	}

	if !job.ClosesAt.IsZero() {
		daysLeft := int(job.ClosesAt.Sub(now).Hours() / 24)
		switch {
		case daysLeft <= 3:
			score -= 30
		case daysLeft <= 7:
			score -= 10
		}
	}

	if score < 0 {
		score = 0
	}
	return clampComponent(score)
}

var walkMinutesPattern = regexp.MustCompile(`徒歩\s*(\d+)\s*分`)

// directAccessTokens mark a listing as directly connected to a station.
var directAccessTokens = []string{"駅直結", "直結"}

// majorStations is the fixed set of high-traffic stations that earn the
// location bonus.
var majorStations = map[string]bool{
	"新宿":  true,
	"渋谷":  true,
	"池袋":  true,
	"東京":  true,
	"品川":  true,
	"横浜":  true,
	"大宮":  true,
	"大阪":  true,
	"梅田":  true,
	"難波":  true,
	"名古屋": true,
	"栄":   true,
	"札幌":  true,
	"仙台":  true,
	"京都":  true,
	"三宮":  true,
	"広島":  true,
	"博多":  true,
	"天神":  true,
}

// locationScore starts at 50 and rewards station access described in the
// listing's access text plus proximity to a major station.
func locationScore(job *types.Job) float64 {
	score := 50.0

	direct := false
	for _, tok := range directAccessTokens {
		if strings.Contains(job.AccessText, tok) {
			direct = true
			break
		}
	}
	switch {
	case direct:
		score += 50
	default:
		if m := walkMinutesPattern.FindStringSubmatch(job.AccessText); m != nil {
			minutes, _ := strconv.Atoi(m[1])
			switch {
			case minutes <= 5:
				score += 30
			case minutes <= 10:
				score += 10
			}
		}
	}

	if station := strings.TrimSuffix(job.NearestStation, "駅"); majorStations[station] {
		score += 20
	}
	return clampComponent(score)
}

// companyScore starts at 50 and rewards companies with a strong application
// rate, zero placement fees across their active listings, and a high posting
// volume. Without stats the listing's own fee stands in for the aggregate.
func companyScore(job *types.Job, shared *stats.Shared) float64 {
	score := 50.0
	zeroFee := job.Fee == 0
	if shared != nil {
		if c, ok := shared.Company(job.CompanyID); ok {
			if c.ApplicationRate > 0.1 {
				score += 20
			}
			if c.ActiveListings > 10 {
				score += 20
			}
			zeroFee = c.ZeroFee
		}
	}
	if zeroFee {
		score += 10
	}
	return clampComponent(score)
}

func clampComponent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > componentMax {
		return componentMax
	}
	return v
}
