package rewriter

import (
	"testing"

	"github.com/judell/word-replacer/internal/core/matcher"
	"github.com/judell/word-replacer/internal/core/wordmap"
)

func cfg(pairs map[string]string, excs ...string) *wordmap.Configuration {
	var doc wordmap.Document
	for k, v := range pairs {
		doc.WordMappings = append(doc.WordMappings, wordmap.Entry{Target: k, Replacement: v})
	}
	doc.WordExceptions = excs
	return wordmap.New(doc)
}

func TestApply_Table(t *testing.T) {
	cases := []struct {
		name  string
		pairs map[string]string
		excs  []string
		in    string
		want  string
	}{
		{
			name:  "exception-precedence",
			pairs: map[string]string{"elon": "person"},
			excs:  []string{"elon musk foundation"},
			in:    "I follow the Elon Musk Foundation and also Elon.",
			want:  "I follow the Elon Musk Foundation and also person.",
		},
		{
			name:  "word-boundary",
			pairs: map[string]string{"cat": "dog"},
			in:    "concatenate cats catalog",
			want:  "concatenate cats catalog",
		},
		{
			name:  "case-insensitive",
			pairs: map[string]string{"musk": "person"},
			in:    "Musk and musk and MUSK",
			want:  "person and person and person",
		},
		{
			name:  "single-pass",
			pairs: map[string]string{"a": "b", "b": "a"},
			in:    "a b",
			want:  "b a",
		},
		{
			name:  "output-contains-target",
			pairs: map[string]string{"cat": "cat cat"},
			in:    "one cat",
			want:  "one cat cat",
		},
		{
			name:  "regex-metacharacters",
			pairs: map[string]string{"c++": "cpp", "a.b": "x"},
			in:    "c++ and a.b but not aXb",
			want:  "cpp and x but not aXb",
		},
		{
			name:  "punctuation-boundaries",
			pairs: map[string]string{"musk": "person"},
			in:    "(Musk), musk's, musk-like",
			want:  "(person), person's, person-like",
		},
		{
			name:  "unicode",
			pairs: map[string]string{"café": "bar"},
			in:    "Café crème at the CAFÉ",
			want:  "bar crème at the bar",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Apply(matcher.Compile(cfg(tc.pairs, tc.excs...)), tc.in)
			if res.Text != tc.want {
				t.Fatalf("Apply(%q) = %q, want %q", tc.in, res.Text, tc.want)
			}
			if res.Changed != (tc.in != tc.want) {
				t.Fatalf("Changed=%v for %q -> %q", res.Changed, tc.in, res.Text)
			}
		})
	}
}

func TestApply_EmptyConfigIsIdentity(t *testing.T) {
	m := matcher.Compile(wordmap.Empty())
	for _, in := range []string{"", "anything at all", "Elon Musk", "\x00weird​"} {
		res := Apply(m, in)
		if res.Text != in || res.Changed || res.Replacements != 0 {
			t.Fatalf("empty config changed %q: %+v", in, res)
		}
		if got := Rewrite(in, matcher.FindSpans(in, wordmap.Table{}, wordmap.ExceptionSet{}), wordmap.Table{}); got != in {
			t.Fatalf("Rewrite with empty table = %q, want %q", got, in)
		}
	}
}

func TestApply_Counts(t *testing.T) {
	m := matcher.Compile(cfg(map[string]string{"elon": "person"}, "elon musk"))
	res := Apply(m, "Elon Musk met elon and ELON")
	if res.Replacements != 2 || res.Exceptions != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", res.Replacements, res.Exceptions)
	}
	if len(res.Spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(res.Spans))
	}
}

func TestApply_OnlyExceptionsIsUnchanged(t *testing.T) {
	m := matcher.Compile(cfg(map[string]string{"elon": "person"}, "elon musk"))
	res := Apply(m, "Elon Musk")
	if res.Changed || res.Text != "Elon Musk" {
		t.Fatalf("unexpected rewrite: %+v", res)
	}
}

func TestRewrite_FallbacksAndBadSpans(t *testing.T) {
	table := wordmap.NewTable([]wordmap.Entry{{Target: "musk", Replacement: "person"}})
	text := "Musk x"

	// unknown text and unknown key keep the original
	spans := []matcher.Span{{Start: 0, End: 4, Kind: matcher.Replacement, Text: "Zzzz", Key: "zzzz"}}
	if got := Rewrite("Zzzz x", spans, table); got != "Zzzz x" {
		t.Fatalf("fallback = %q", got)
	}

	// Key resolves when the lower-cased text does not
	spans = []matcher.Span{{Start: 0, End: 4, Kind: matcher.Replacement, Text: "Zzzz", Key: "musk"}}
	if got := Rewrite("Zzzz x", spans, table); got != "person x" {
		t.Fatalf("key lookup = %q", got)
	}

	// overlapping and out-of-range spans are ignored
	spans = []matcher.Span{
		{Start: 0, End: 4, Kind: matcher.Replacement},
		{Start: 2, End: 5, Kind: matcher.Replacement},
		{Start: 5, End: 99, Kind: matcher.Replacement},
	}
	if got := Rewrite(text, spans, table); got != "person x" {
		t.Fatalf("bad spans = %q", got)
	}
}
