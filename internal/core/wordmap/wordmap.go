// Package wordmap holds the replacement configuration: the table of target
// phrases and their replacements plus the exception phrases that must never be
// rewritten. A Configuration is immutable once built; updates build a new one
package wordmap

import (
	"strings"
)

// Entry is a single target -> replacement pair as the user entered it
type Entry struct {
	Target      string
	Replacement string
}

// Table maps lower-cased target phrases to replacements.
// Keys keep first-insertion order so iteration is deterministic
type Table struct {
	keys []string
	repl map[string]string
}

// NewTable builds a table from ordered entries.
// Targets are trimmed, sanitized and lower-cased; a later entry whose target
// normalizes to an existing key overwrites its replacement (last write wins).
// Entries with an empty target or an empty replacement are dropped
func NewTable(entries []Entry) Table {
	t := Table{repl: make(map[string]string, len(entries))}
	for _, e := range entries {
		key := strings.ToLower(cleanPhrase(e.Target))
		val := strings.TrimSpace(Sanitize(e.Replacement))
		if key == "" || val == "" {
			continue
		}
		if _, seen := t.repl[key]; !seen {
			t.keys = append(t.keys, key)
		}
		t.repl[key] = val
	}
	return t
}

// Lookup returns the replacement for an already lower-cased key
func (t Table) Lookup(key string) (string, bool) {
	v, ok := t.repl[key]
	return v, ok
}

// Keys returns the lower-cased targets in insertion order
func (t Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len reports the number of targets
func (t Table) Len() int { return len(t.keys) }

// Entries returns the normalized table as ordered entries
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, Entry{Target: k, Replacement: t.repl[k]})
	}
	return out
}

// ExceptionSet is the ordered list of protected phrases.
// Matching is case-insensitive; the original casing is kept for display
type ExceptionSet struct {
	phrases []string
}

// NewExceptionSet trims and sanitizes phrases, dropping empties and
// case-insensitive duplicates (first occurrence kept)
func NewExceptionSet(phrases []string) ExceptionSet {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = cleanPhrase(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return ExceptionSet{phrases: out}
}

// Phrases returns the exception phrases in order
func (s ExceptionSet) Phrases() []string {
	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}

// Len reports the number of exception phrases
func (s ExceptionSet) Len() int { return len(s.phrases) }

// Configuration is the table and exception set currently in effect
type Configuration struct {
	Table      Table
	Exceptions ExceptionSet
}

// New builds a Configuration from its persisted document form
func New(doc Document) *Configuration {
	return &Configuration{
		Table:      NewTable(doc.WordMappings),
		Exceptions: NewExceptionSet(doc.WordExceptions),
	}
}

// Empty returns a configuration that rewrites nothing
func Empty() *Configuration {
	return New(Document{})
}

// IsEmpty reports whether the configuration has no targets
func (c *Configuration) IsEmpty() bool {
	return c == nil || c.Table.Len() == 0
}

// Document returns the persisted form of c (normalized keys)
func (c *Configuration) Document() Document {
	if c == nil {
		return Document{WordMappings: Mappings{}, WordExceptions: []string{}}
	}
	return Document{
		WordMappings:   Mappings(c.Table.Entries()),
		WordExceptions: c.Exceptions.Phrases(),
	}
}

func cleanPhrase(s string) string {
	return strings.TrimSpace(Sanitize(s))
}
