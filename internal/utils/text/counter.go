// Package text provides character-level helpers shared by the fetchers and the
// summarizer. Lengths are counted in Unicode code points so Japanese text is
// measured the same way the prompt describes it.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
//	CountRunes("hello")      // 5
//	CountRunes("こんにちは")   // 5
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// TruncateRunes returns the first n runes of text and whether anything was cut.
// A non-positive n yields an empty string.
func TruncateRunes(text string, n int) (string, bool) {
	if n <= 0 {
		return "", text != ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i], true
		}
		count++
	}
	return text, false
}

// Clip shortens text to at most n bytes for log output, appending an ellipsis
// when it had to cut. It never splits a multi-byte character.
func Clip(text string, n int) string {
	if len(text) <= n {
		return text
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
