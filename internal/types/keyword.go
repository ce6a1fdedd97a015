package types

// KeywordEntry is one row of the externally sourced keyword table:
// a search keyword with its monthly volume and a 0-100 competitiveness score.
type KeywordEntry struct {
	Text       string `json:"text"`
	Volume     int    `json:"volume"`
	Difficulty int    `json:"difficulty"`
}
