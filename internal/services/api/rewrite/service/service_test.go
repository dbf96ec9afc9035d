package service

import (
	"context"
	"strings"
	"testing"

	"github.com/judell/word-replacer/internal/core/wordmap"
	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/services/api/rewrite/domain"
)

func newSvc(t *testing.T) *Svc {
	t.Helper()
	drv := driver.New(driver.Options{})
	cfg, err := wordmap.Parse([]byte(`{"wordMappings":{"musk":"someone"},"wordExceptions":["musk ox"]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	drv.Replace(cfg)
	return New(drv)
}

func TestText(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()

	res := s.Text(ctx, domain.TextInput{Text: "Musk saw a musk ox"})
	if res.Text != "someone saw a musk ox" || res.Replacements != 1 || res.Exceptions != 1 {
		t.Fatalf("text = %+v", res)
	}
	if res := s.Text(ctx, domain.TextInput{}); res.Text != "" || res.Changed {
		t.Fatalf("empty text = %+v", res)
	}
}

func TestHTML(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()

	frag, err := s.HTML(ctx, domain.HTMLInput{HTML: `<ul><li>Musk</li><li>musk ox</li></ul>`})
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	if frag.HTML != `<ul><li>someone</li><li>musk ox</li></ul>` {
		t.Fatalf("fragment = %q", frag.HTML)
	}
	if frag.Report.Changed != 1 || frag.Report.Trigger != driver.TriggerManual {
		t.Fatalf("report = %+v", frag.Report)
	}

	doc, err := s.HTML(ctx, domain.HTMLInput{HTML: `<!DOCTYPE html><html><head><title>Musk</title></head><body>Musk</body></html>`})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if !strings.HasPrefix(doc.HTML, "<!DOCTYPE html>") || !strings.Contains(doc.HTML, "<body>someone</body>") {
		t.Fatalf("document = %q", doc.HTML)
	}
}
