package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordHits_PlainMatch(t *testing.T) {
	assert.Equal(t, 1, keywordHits("日払いOKのお仕事です", "日払い"))
	assert.Equal(t, 0, keywordHits("日払いOKのお仕事です", "週払い"))
}

func TestKeywordHits_NegationSuppression(t *testing.T) {
	// The canonical case: 日払い不可 must not count as a 日払い hit.
	assert.Equal(t, 0, keywordHits("日払い不可", "日払い"))
	assert.Equal(t, 0, keywordHits("日払いはなし", "日払い"))
	assert.Equal(t, 0, keywordHits("daily pay not available", "daily pay"))
}

func TestKeywordHits_NegationOutsideWindowDoesNotSuppress(t *testing.T) {
	// Negation token sits more than 20 runes after the hit.
	padding := "あいうえおかきくけこさしすせそたちつてとなにぬねの" // 25 runes
	text := "日払い" + padding + "不可"
	assert.Equal(t, 1, keywordHits(text, "日払い"))
}

func TestKeywordHits_NegationBeforeHit(t *testing.T) {
	assert.Equal(t, 0, keywordHits("不可：日払い", "日払い"))
}

func TestKeywordHits_MultipleOccurrences(t *testing.T) {
	text := "短期のお仕事。" + "あいうえおかきくけこさしすせそたちつてとなにぬねの" + "短期歓迎。"
	assert.Equal(t, 2, keywordHits(text, "短期"))
}

func TestKeywordHits_KeywordContainingTokenIsNotSelfSuppressed(t *testing.T) {
	// The window check excludes the keyword span itself.
	assert.Equal(t, 1, keywordHits("面接なしで勤務開始", "面接なし"))
}

func TestKeywordHits_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0, keywordHits("", "日払い"))
	assert.Equal(t, 0, keywordHits("日払い", ""))
}
