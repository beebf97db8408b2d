// Package text provides rune-aware helpers for the free text the pipeline
// handles: headlines, feed summaries and model answers.
package text

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// CountRunes counts the Unicode characters in s, so "Malmö" counts 5.
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most limit runes. When s is cut, the result
// ends with Ellipsis, which counts toward the limit. Cutting prefers the
// last word boundary within the limit when one exists in its second half.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:limit-1])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + Ellipsis
}

// CollapseSpace replaces every whitespace run in s with one space and
// trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
