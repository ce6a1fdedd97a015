package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-match-engine/internal/types"
)

func TestNewIndex_DropsEmptyAndDeduplicates(t *testing.T) {
	idx := NewIndex([]types.KeywordEntry{
		{Text: "日払い", Volume: 5000, Difficulty: 40},
		{Text: "  ", Volume: 100},
		{Text: "日払い", Volume: 9000, Difficulty: 55},
		{Text: "高時給", Volume: 3000, Difficulty: 70},
	})

	assert.Equal(t, 2, idx.Len())

	entry, ok := idx.Lookup("日払い")
	assert.True(t, ok)
	assert.Equal(t, 9000, entry.Volume)
	assert.Equal(t, 55, entry.Difficulty)
}

func TestIndexLookup_TrimsWhitespace(t *testing.T) {
	idx := NewIndex([]types.KeywordEntry{{Text: "短期", Volume: 1000}})

	_, ok := idx.Lookup(" 短期 ")
	assert.True(t, ok)

	_, ok = idx.Lookup("長期")
	assert.False(t, ok)
}
