// Package matcher finds the spans of text that a Configuration acts on:
// protected exception occurrences and whole-word replacement targets.
// A Matcher is compiled once per Configuration and is safe for concurrent use
package matcher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/judell/word-replacer/internal/core/wordmap"
)

// Kind tells exceptions and replacements apart
type Kind uint8

const (
	// Exception spans are copied through verbatim
	Exception Kind = iota
	// Replacement spans are substituted from the table
	Replacement
)

func (k Kind) String() string {
	switch k {
	case Exception:
		return "exception"
	case Replacement:
		return "replacement"
	}
	return "unknown"
}

// MarshalText lets Kind travel as its name in JSON payloads
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Span is a half-open byte range [Start,End) of the scanned text.
// Text is the matched text with its original casing; Key is the lower-cased
// table key (Replacement) or exception phrase (Exception) that produced it
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
	Key   string `json:"key"`
}

func (s Span) overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

type literal struct {
	key string
	re  *regexp.Regexp
}

// Matcher is the compiled form of a Configuration
type Matcher struct {
	cfg        *wordmap.Configuration
	targets    []literal
	exceptions []literal
	pre        *acAutomaton
}

// Compile builds a Matcher for cfg. A nil cfg compiles to a matcher that
// never matches. Phrases are always literal; regexp metacharacters in user
// input are quoted
func Compile(cfg *wordmap.Configuration) *Matcher {
	if cfg == nil {
		cfg = wordmap.Empty()
	}
	m := &Matcher{cfg: cfg, pre: newAutomaton()}

	for _, key := range cfg.Table.Keys() {
		m.targets = append(m.targets, literal{key: key, re: literalRE(key)})
		m.pre.add(fold(key))
	}
	m.pre.build()

	for _, p := range cfg.Exceptions.Phrases() {
		m.exceptions = append(m.exceptions, literal{key: strings.ToLower(p), re: literalRE(p)})
	}
	return m
}

func literalRE(phrase string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(phrase))
}

// Config returns the configuration m was compiled from
func (m *Matcher) Config() *wordmap.Configuration { return m.cfg }

// MayMatch is the cheap pre-check: it reports whether any target occurs in
// text as a case-insensitive substring. A false result means FindSpans
// would return no replacement spans and the text can be left alone
func (m *Matcher) MayMatch(text string) bool {
	if m == nil || len(m.targets) == 0 || text == "" {
		return false
	}
	return m.pre.contains(fold(text))
}

// FindSpans returns the sorted, non-overlapping spans of text.
// When no target can occur in text the result is nil, exceptions included
func (m *Matcher) FindSpans(text string) []Span {
	if !m.MayMatch(text) {
		return nil
	}

	excs := m.findExceptions(text)
	spans := make([]Span, 0, len(excs)+4)
	spans = append(spans, excs...)

	for _, t := range m.targets {
		pos := 0
		for pos <= len(text) {
			loc := t.re.FindStringIndex(text[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]
			if !boundaryOK(text, start, end) {
				pos = nextRune(text, start)
				continue
			}
			cand := Span{Start: start, End: end, Kind: Replacement, Text: text[start:end], Key: t.key}
			if !hitsAny(cand, excs) {
				spans = append(spans, cand)
			}
			pos = end
		}
	}

	sortSpans(spans)
	return dropOverlaps(spans)
}

// findExceptions locates every case-insensitive occurrence of every exception
// phrase, overlapping ones included, then merges overlapping occurrences into
// single protected spans
func (m *Matcher) findExceptions(text string) []Span {
	var out []Span
	for _, e := range m.exceptions {
		pos := 0
		for pos < len(text) {
			loc := e.re.FindStringIndex(text[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]
			out = append(out, Span{Start: start, End: end, Kind: Exception, Text: text[start:end], Key: e.key})
			pos = nextRune(text, start)
		}
	}
	if len(out) < 2 {
		return out
	}

	sortSpans(out)
	merged := out[:1]
	for _, s := range out[1:] {
		last := &merged[len(merged)-1]
		if s.Start < last.End {
			if s.End > last.End {
				last.End = s.End
				last.Text = text[last.Start:last.End]
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func hitsAny(s Span, excs []Span) bool {
	// excs is sorted and disjoint
	i := sort.Search(len(excs), func(i int) bool { return excs[i].End > s.Start })
	return i < len(excs) && excs[i].overlaps(s)
}

// sortSpans orders by start; at equal start exceptions come first, then the
// shorter span
func sortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Kind != b.Kind {
			return a.Kind == Exception
		}
		return a.End < b.End
	})
}

// dropOverlaps keeps the first span of every overlapping run. Exceptions
// never overlap each other or a replacement by this point, so only
// replacement targets that share text (e.g. "new" and "new york") are dropped
func dropOverlaps(spans []Span) []Span {
	out := spans[:0]
	lastEnd := -1
	for _, s := range spans {
		if s.Start < lastEnd {
			continue
		}
		out = append(out, s)
		lastEnd = s.End
	}
	return out
}

// FindSpans compiles table and exceptions and runs a single match pass
func FindSpans(text string, table wordmap.Table, exceptions wordmap.ExceptionSet) []Span {
	return Compile(&wordmap.Configuration{Table: table, Exceptions: exceptions}).FindSpans(text)
}
