package matcher

import (
	"unicode"
	"unicode/utf8"
)

// isWord reports whether r counts as a word character for boundary checks:
// letters, numbers, nonspacing marks (Mn) and connector punctuation (Pc, e.g. underscore).
// Hyphens, apostrophes and other punctuation are boundaries
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.In(r, unicode.Mn, unicode.Pc)
}

// boundaryOK reports whether [start,end) in s is a whole-word occurrence:
// neither neighbour rune is a word character
func boundaryOK(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWord(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWord(r) {
			return false
		}
	}
	return true
}

// nextRune returns the offset just past the rune that starts at i
func nextRune(s string, i int) int {
	if i >= len(s) {
		return len(s) + 1
	}
	_, sz := utf8.DecodeRuneInString(s[i:])
	return i + sz
}
