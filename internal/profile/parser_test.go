package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCountMap_Valid(t *testing.T) {
	counts, err := ParseCountMap("13:5,14:3,27:1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"13": 5, "14": 3, "27": 1}, counts)
}

func TestParseCountMap_Empty(t *testing.T) {
	counts, err := ParseCountMap("")
	require.NoError(t, err)
	assert.Empty(t, counts)

	counts, err = ParseCountMap("  ")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestParseCountMap_MalformedFragmentsAreSkippedIndividually(t *testing.T) {
	counts, err := ParseCountMap("13:5,bogus,14:-2,:3,27:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 malformed")
	// The valid fragments survive.
	assert.Equal(t, map[string]int{"13": 5, "27": 1}, counts)
}

func TestParseCountMap_DuplicateCodesAccumulate(t *testing.T) {
	counts, err := ParseCountMap("13:2,13:3")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"13": 5}, counts)
}

func TestNormalizeCounts(t *testing.T) {
	weights := NormalizeCounts(map[string]int{"13": 3, "14": 1})
	assert.InDelta(t, 0.75, weights["13"], 0.001)
	assert.InDelta(t, 0.25, weights["14"], 0.001)

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 0.001)
}

func TestNormalizeCounts_DropsZeroAndHandlesEmpty(t *testing.T) {
	weights := NormalizeCounts(map[string]int{"13": 2, "14": 0})
	assert.Len(t, weights, 1)

	assert.Empty(t, NormalizeCounts(nil))
	assert.Empty(t, NormalizeCounts(map[string]int{"13": 0}))
}
