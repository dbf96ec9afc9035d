package matcher

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
)

// casers are stateful, so each fold takes one from the pool
var foldPool = sync.Pool{
	New: func() any { return cases.Fold() },
}

// fold returns the full Unicode case folding of s
func fold(s string) string {
	if s == "" {
		return ""
	}
	c := foldPool.Get().(cases.Caser)
	out, _, err := transform.String(c, s)
	c.Reset()
	foldPool.Put(c)
	if err != nil {
		return s
	}
	return out
}
