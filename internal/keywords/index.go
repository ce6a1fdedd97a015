// Package keywords provides the weighted keyword index used by scoring and
// the client for the external keyword provider.
package keywords

import (
	"strings"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Index is a read-only lookup structure over the keyword table. It is built
// once per batch run and shared across all scoring workers.
type Index struct {
	entries []types.KeywordEntry
	byText  map[string]types.KeywordEntry
}

// NewIndex builds an index from keyword entries. Entries with empty text are
// dropped; duplicate texts keep the higher-volume entry.
func NewIndex(entries []types.KeywordEntry) *Index {
	idx := &Index{
		entries: make([]types.KeywordEntry, 0, len(entries)),
		byText:  make(map[string]types.KeywordEntry, len(entries)),
	}
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		e.Text = text
		if prev, ok := idx.byText[text]; ok {
			if e.Volume <= prev.Volume {
				continue
			}
			for i := range idx.entries {
				if idx.entries[i].Text == text {
					idx.entries[i] = e
					break
				}
			}
			idx.byText[text] = e
			continue
		}
		idx.byText[text] = e
		idx.entries = append(idx.entries, e)
	}
	return idx
}

// Entries returns all indexed keyword entries.
func (idx *Index) Entries() []types.KeywordEntry {
	return idx.entries
}

// Lookup returns the entry for an exact keyword text.
func (idx *Index) Lookup(text string) (types.KeywordEntry, bool) {
	e, ok := idx.byText[strings.TrimSpace(text)]
	return e, ok
}

// Len returns the number of distinct keywords in the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}
