package wordmap

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops bytes that have no business inside a configured phrase:
// NUL and other ASCII controls except '\t', '\n', '\r', DEL, C1 controls
// (U+0080..U+009F) and invalid UTF-8. Clean input is returned unchanged
func Sanitize(s string) string {
	if s == "" || strings.IndexFunc(s, dropRune) < 0 && utf8.ValidString(s) {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		if dropRune(r) {
			return -1
		}
		return r
	}, s)
}

func dropRune(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return false
}
