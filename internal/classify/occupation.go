package classify

import "strings"

// OccupationOther is the fallback occupation category for unknown codes.
const OccupationOther = "other"

// occupationHierarchy maps occupation code prefixes to occupation
// categories. The hierarchy is fixed; classification is a direct lookup
// with no scoring involved.
var occupationHierarchy = map[string]string{
	"food":      "food_service",
	"kitchen":   "food_service",
	"cafe":      "food_service",
	"conv":      "retail",
	"retail":    "retail",
	"apparel":   "retail",
	"delivery":  "delivery",
	"driver":    "delivery",
	"warehouse": "logistics",
	"factory":   "logistics",
	"office":    "office",
	"reception": "office",
	"call":      "office",
	"care":      "healthcare",
	"nurse":     "healthcare",
	"pharmacy":  "healthcare",
	"teach":     "education",
	"tutor":     "education",
	"event":     "event",
	"security":  "event",
	"clean":     "maintenance",
}

// LookupOccupation resolves a job's occupation code to its category in the
// fixed hierarchy. Codes are matched on their prefix before the first
// underscore; unknown codes map to OccupationOther.
func LookupOccupation(code string) string {
	if code == "" {
		return OccupationOther
	}
	prefix := code
	if i := strings.Index(code, "_"); i > 0 {
		prefix = code[:i]
	}
	if cat, ok := occupationHierarchy[strings.ToLower(prefix)]; ok {
		return cat
	}
	return OccupationOther
}
