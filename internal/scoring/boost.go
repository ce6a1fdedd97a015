package scoring

import (
	"time"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Boost factor bounds. Each contextual factor is clamped to this range
// before the factors are multiplied together.
const (
	boostMin = 1.0
	boostMax = 1.4
)

// contextualBoost multiplies up to four independent factors: time of day,
// weekday, season, and the strongest category boost of the job's matched
// rules.
func contextualBoost(now time.Time, assignment *types.JobCategoryAssignment) float64 {
	return clampBoost(timeFactor(now.Hour())) *
		clampBoost(weekdayFactor(now.Weekday())) *
		clampBoost(seasonFactor(now.Month())) *
		clampBoost(categoryFactor(assignment))
}

// timeFactor favors the morning commute window when digest emails convert
// best, with a smaller evening lift.
func timeFactor(hour int) float64 {
	switch {
	case hour >= 5 && hour <= 9:
		return 1.1
	case hour >= 17 && hour <= 22:
		return 1.05
	default:
		return 1.0
	}
}

func weekdayFactor(day time.Weekday) float64 {
	if day == time.Saturday || day == time.Sunday {
		return 1.1
	}
	return 1.0
}

// seasonFactor lifts the spring hiring season, the summer short-term wave
// and the year-end rush.
func seasonFactor(month time.Month) float64 {
	switch month {
	case time.March, time.April:
		return 1.2
	case time.July, time.August:
		return 1.1
	case time.December:
		return 1.1
	default:
		return 1.0
	}
}

// categoryFactor is the strongest rule boost among the job's matched needs
// categories.
func categoryFactor(assignment *types.JobCategoryAssignment) float64 {
	if assignment == nil {
		return 1.0
	}
	factor := 1.0
	for _, c := range assignment.Categories {
		if c.Boost > factor {
			factor = c.Boost
		}
	}
	return factor
}

func clampBoost(v float64) float64 {
	if v < boostMin {
		return boostMin
	}
	if v > boostMax {
		return boostMax
	}
	return v
}
