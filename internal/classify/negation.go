// Package classify assigns needs categories and an occupation category to
// jobs using a static rule set with negation suppression.
package classify

import "strings"

// negationWindow is the number of runes inspected on each side of a keyword
// hit. A hit with a negation token inside the window is discarded.
const negationWindow = 20

// negationTokens are the phrases that suppress a keyword match when they
// appear near it, e.g. 日払い不可 must not match a 日払い rule.
var negationTokens = []string{
	"不可",
	"なし",
	"ナシ",
	"無し",
	"除く",
	"除外",
	"以外",
	"N/A",
	"×",
	"✕",
	"not available",
	"none",
	"excluded",
}

// keywordHits counts occurrences of keyword in text that are not suppressed
// by a negation token within the surrounding window. Matching is done on
// runes so the window width is stable for multi-byte text.
func keywordHits(text, keyword string) int {
	if keyword == "" || text == "" {
		return 0
	}
	runes := []rune(text)
	kw := []rune(keyword)
	if len(kw) > len(runes) {
		return 0
	}

	hits := 0
	for i := 0; i+len(kw) <= len(runes); i++ {
		if !runesEqual(runes[i:i+len(kw)], kw) {
			continue
		}
		lo := i - negationWindow
		if lo < 0 {
			lo = 0
		}
		hi := i + len(kw) + negationWindow
		if hi > len(runes) {
			hi = len(runes)
		}
		if !windowNegated(string(runes[lo:i]), string(runes[i+len(kw):hi])) {
			hits++
		}
		i += len(kw) - 1
	}
	return hits
}

// windowNegated checks the text before and after a hit for negation tokens.
// The keyword itself is excluded so rules whose keyword contains a token
// substring are not self-suppressed.
func windowNegated(before, after string) bool {
	for _, tok := range negationTokens {
		if strings.Contains(before, tok) || strings.Contains(after, tok) {
			return true
		}
	}
	return false
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
