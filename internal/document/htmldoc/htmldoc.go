// Package htmldoc exposes a parsed HTML document as a driver.DocumentScope.
// Text nodes outside non-prose containers are offered for rewriting. Append
// and Remove always raise a change notification; text writes stay quiet
// while the document is suspended
package htmldoc

import (
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/judell/word-replacer/internal/driver"
	perr "github.com/judell/word-replacer/internal/platform/errors"
)

// skipSelector lists elements whose text is never prose
const skipSelector = "script, style, noscript, template, textarea"

// Document is a mutable HTML document. It is safe for concurrent use
type Document struct {
	mu        sync.Mutex
	doc       *goquery.Document
	changes   chan struct{}
	suspended int
}

// Parse reads a full HTML document or a fragment (which gets wrapped in html/body)
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "parse html")
	}
	return &Document{doc: doc, changes: make(chan struct{}, 1)}, nil
}

// ParseString is Parse over a string
func ParseString(s string) (*Document, error) { return Parse(strings.NewReader(s)) }

// IsDocument reports whether markup opens like a full document rather than
// a fragment, judging by a doctype or an <html> tag near the top
func IsDocument(markup string) bool {
	head := strings.ToLower(strings.TrimSpace(markup))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype") || strings.Contains(head, "<html")
}

// Render returns the whole document when full is set, the body otherwise
func (d *Document) Render(full bool) (string, error) {
	if full {
		return d.HTML()
	}
	return d.BodyHTML()
}

// Nodes returns the rewritable text nodes in document order
func (d *Document) Nodes() []driver.TextNode {
	d.mu.Lock()
	defer d.mu.Unlock()

	skip := make(map[*html.Node]struct{})
	for _, n := range d.doc.Find(skipSelector).Nodes {
		skip[n] = struct{}{}
	}

	var out []driver.TextNode
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if _, ok := skip[n]; ok {
			return
		}
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) != "" {
				out = append(out, &textNode{d: d, n: n})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range d.doc.Nodes {
		walk(root)
	}
	return out
}

// Changes delivers a coalesced signal after content changes
func (d *Document) Changes() <-chan struct{} { return d.changes }

// Suspend silences notifications for text writes until the matching Resume.
// Structural changes from Append and Remove are still reported
func (d *Document) Suspend() {
	d.mu.Lock()
	d.suspended++
	d.mu.Unlock()
}

// Resume undoes one Suspend
func (d *Document) Resume() {
	d.mu.Lock()
	if d.suspended > 0 {
		d.suspended--
	}
	d.mu.Unlock()
}

// notify must be called with d.mu held
func (d *Document) notify() {
	select {
	case d.changes <- struct{}{}:
	default:
	}
}

// HTML renders the whole document
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return goquery.OuterHtml(d.doc.Selection)
}

// BodyHTML renders the contents of <body>, which round-trips fragments
func (d *Document) BodyHTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find("body").First().Html()
}

// Append parses fragment and appends it to every element matching selector
func (d *Document) Append(selector, fragment string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel, err := d.find(selector)
	if err != nil {
		return 0, err
	}
	sel.AppendHtml(fragment)
	d.notify()
	return sel.Length(), nil
}

// Remove detaches every element matching selector
func (d *Document) Remove(selector string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel, err := d.find(selector)
	if err != nil {
		return 0, err
	}
	sel.Remove()
	d.notify()
	return sel.Length(), nil
}

// find resolves selector; goquery alone cannot tell a bad selector from no match
func (d *Document) find(selector string) (*goquery.Selection, error) {
	if _, err := cascadia.Compile(selector); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "bad selector")
	}
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, perr.NotFoundf("no element matches %q", selector)
	}
	return sel, nil
}

func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		for _, root := range d.doc.Nodes {
			if p == root {
				return true
			}
		}
	}
	return false
}

type textNode struct {
	d *Document
	n *html.Node
}

func (t *textNode) Text() string {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	return t.n.Data
}

func (t *textNode) SetText(s string) error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	if !t.d.attached(t.n) {
		return perr.New(perr.ErrorCodeScanTarget, "text node is no longer in the document")
	}
	if t.n.Data == s {
		return nil
	}
	t.n.Data = s
	if t.d.suspended == 0 {
		t.d.notify()
	}
	return nil
}
