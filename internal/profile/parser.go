// Package profile derives user preference profiles from application history.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCountMap parses a legacy "code:count" delimited encoding, e.g.
// "13:5,14:3", into a typed count map. The encoding never travels past this
// boundary. Malformed fragments are skipped individually and reported
// together; the valid fragments are still returned.
func ParseCountMap(encoded string) (map[string]int, error) {
	counts := make(map[string]int)
	if strings.TrimSpace(encoded) == "" {
		return counts, nil
	}

	var bad []string
	for _, fragment := range strings.Split(encoded, ",") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		code, countText, found := strings.Cut(fragment, ":")
		code = strings.TrimSpace(code)
		count, err := strconv.Atoi(strings.TrimSpace(countText))
		if !found || code == "" || err != nil || count < 0 {
			bad = append(bad, fragment)
			continue
		}
		counts[code] += count
	}

	if len(bad) > 0 {
		return counts, fmt.Errorf("skipped %d malformed fragments: %s", len(bad), strings.Join(bad, ", "))
	}
	return counts, nil
}

// NormalizeCounts converts a count map into weights summing to 1.0. Zero
// counts are dropped; an empty input yields an empty map.
func NormalizeCounts(counts map[string]int) map[string]float64 {
	total := 0
	for _, c := range counts {
		if c > 0 {
			total += c
		}
	}
	weights := make(map[string]float64, len(counts))
	if total == 0 {
		return weights
	}
	for code, c := range counts {
		if c > 0 {
			weights[code] = float64(c) / float64(total)
		}
	}
	return weights
}
