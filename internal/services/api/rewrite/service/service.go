// Package service runs one-shot rewrites against the Configuration in effect
package service

import (
	"context"

	"github.com/judell/word-replacer/internal/core/rewriter"
	"github.com/judell/word-replacer/internal/document/htmldoc"
	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/services/api/rewrite/domain"
)

// Service defines the service contract for rewrites
type Service interface{ domain.ServicePort }

// Svc implements Service
type Svc struct{ drv *driver.Driver }

// New creates a rewrite service
func New(drv *driver.Driver) *Svc {
	if drv == nil {
		panic("rewrite.Service requires a non nil Driver")
	}
	return &Svc{drv: drv}
}

// Text rewrites plain text in one pass
func (s *Svc) Text(_ context.Context, in domain.TextInput) domain.TextResult {
	return rewriter.Apply(s.drv.Matcher(), in.Text)
}

// HTML parses the markup, scans it like a live page and renders it back.
// Fragments come back as fragments, documents as documents
func (s *Svc) HTML(ctx context.Context, in domain.HTMLInput) (domain.HTMLResult, error) {
	doc, err := htmldoc.ParseString(in.HTML)
	if err != nil {
		return domain.HTMLResult{}, err
	}
	rep := s.drv.Scan(ctx, doc)

	out, err := doc.Render(htmldoc.IsDocument(in.HTML))
	if err != nil {
		return domain.HTMLResult{}, err
	}
	return domain.HTMLResult{HTML: out, Report: rep}, nil
}
