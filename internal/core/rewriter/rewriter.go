// Package rewriter turns a text and its spans into the rewritten text
package rewriter

import (
	"strings"

	"github.com/judell/word-replacer/internal/core/matcher"
	"github.com/judell/word-replacer/internal/core/wordmap"
)

// Rewrite produces the output text in a single left-to-right pass.
// Gaps between spans are copied as is, exception spans are copied verbatim
// and replacement spans are looked up in table by their lower-cased text.
// A replacement that cannot be resolved keeps the original text.
// The output is never rescanned
func Rewrite(text string, spans []matcher.Span, table wordmap.Table) string {
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(text) || s.Start > s.End {
			continue
		}
		b.WriteString(text[pos:s.Start])
		orig := text[s.Start:s.End]
		if s.Kind == matcher.Replacement {
			b.WriteString(resolve(table, orig, s.Key))
		} else {
			b.WriteString(orig)
		}
		pos = s.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

func resolve(table wordmap.Table, orig, key string) string {
	if v, ok := table.Lookup(strings.ToLower(orig)); ok {
		return v
	}
	if key != "" {
		if v, ok := table.Lookup(key); ok {
			return v
		}
	}
	return orig
}

// Result is the outcome of one scan of one string
type Result struct {
	Text         string         `json:"text"`
	Changed      bool           `json:"changed"`
	Replacements int            `json:"replacements"`
	Exceptions   int            `json:"exceptions"`
	Spans        []matcher.Span `json:"spans"`
}

// Apply runs the pre-check, the match pass and the rewrite pass over text
func Apply(m *matcher.Matcher, text string) Result {
	res := Result{Text: text, Spans: []matcher.Span{}}
	if !m.MayMatch(text) {
		return res
	}
	spans := m.FindSpans(text)
	for _, s := range spans {
		if s.Kind == matcher.Replacement {
			res.Replacements++
		} else {
			res.Exceptions++
		}
	}
	if res.Replacements == 0 {
		res.Spans = spans
		return res
	}
	res.Text = Rewrite(text, spans, m.Config().Table)
	res.Changed = res.Text != text
	res.Spans = spans
	return res
}
