// Package scoring computes the context-free base score of a job from six
// weighted signals plus a multiplicative contextual boost.
package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Weights is a named scoring profile: the relative weight of each component
// in the final weighted sum. The source system documents two incompatible
// schemes, so both are carried as selectable profiles.
type Weights struct {
	Name      string
	Keyword   float64
	Feature   float64
	Salary    float64
	Freshness float64
	Location  float64
	Company   float64
}

// DefaultProfileName selects the six-factor profile unless configured
// otherwise.
const DefaultProfileName = "balanced"

var profiles = map[string]Weights{
	// Six-factor scheme.
	"balanced": {
		Name:      "balanced",
		Keyword:   0.35,
		Feature:   0.25,
		Salary:    0.20,
		Freshness: 0.10,
		Location:  0.05,
		Company:   0.05,
	},
	// Four-factor scheme: location and company signals are excluded.
	"simple": {
		Name:      "simple",
		Keyword:   0.40,
		Feature:   0.30,
		Salary:    0.20,
		Freshness: 0.10,
	},
}

// ProfileByName resolves a scoring profile. Unknown names are a
// configuration error listing the valid choices.
func ProfileByName(name string) (Weights, error) {
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return Weights{}, fmt.Errorf("unknown scoring profile %q (valid: %s)", name, strings.Join(names, ", "))
}
