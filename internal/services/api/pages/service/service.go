// Package service keeps a registry of pages attached to the driver.
// Each page is an HTML document the driver rewrites on attach, on every
// Configuration update and whenever a fragment lands in it
package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/judell/word-replacer/internal/document/htmldoc"
	"github.com/judell/word-replacer/internal/driver"
	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/logger"
	pnet "github.com/judell/word-replacer/internal/platform/net"
	"github.com/judell/word-replacer/internal/services/api/pages/domain"
)

// DefaultMaxPages caps the registry when Options leaves it unset
const DefaultMaxPages = 256

// Service defines the service contract for pages
type Service interface{ domain.ServicePort }

// Options tune the registry
type Options struct {
	MaxPages int
}

type page struct {
	doc  *htmldoc.Document
	meta domain.Page
}

// Svc implements Service
type Svc struct {
	drv   *driver.Driver
	max   int
	now   func() time.Time
	mu    sync.RWMutex
	pages map[string]*page
}

// New creates a page registry on top of drv
func New(drv *driver.Driver, opts Options) *Svc {
	if drv == nil {
		panic("pages.Service requires a non nil Driver")
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return &Svc{drv: drv, max: opts.MaxPages, now: time.Now, pages: map[string]*page{}}
}

// Create parses the markup, attaches it and returns the first scan
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Page, error) {
	doc, err := htmldoc.ParseString(in.HTML)
	if err != nil {
		return domain.Page{}, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	if len(s.pages) >= s.max {
		s.mu.Unlock()
		return domain.Page{}, perr.Unavailablef("page limit of %d reached", s.max)
	}
	p := &page{doc: doc, meta: domain.Page{ID: id, CreatedAt: s.now().UTC()}}
	s.pages[id] = p
	s.mu.Unlock()

	ctx = pnet.WithPage(ctx, id)
	rep := s.drv.Attach(ctx, doc)

	s.mu.Lock()
	p.meta.Report = rep
	s.mu.Unlock()

	logger.C(ctx).Info().
		Int("nodes", rep.Nodes).
		Int("replacements", rep.Replacements).
		Msg("page attached")
	return p.meta, nil
}

// List returns every page, oldest first
func (s *Svc) List(context.Context) []domain.Page {
	s.mu.RLock()
	out := make([]domain.Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p.meta)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Get renders a page as it stands now
func (s *Svc) Get(_ context.Context, id string) (domain.PageHTML, error) {
	p, err := s.lookup(id)
	if err != nil {
		return domain.PageHTML{}, err
	}
	out, err := p.doc.HTML()
	if err != nil {
		return domain.PageHTML{}, perr.Wrap(err, perr.ErrorCodeUnknown, "render page")
	}
	return domain.PageHTML{ID: id, HTML: out}, nil
}

// Append inserts markup into the page. The driver picks the change up
// from its loop, so the new text is rewritten shortly after this returns
func (s *Svc) Append(ctx context.Context, id string, in domain.FragmentInput) (domain.FragmentResult, error) {
	p, err := s.lookup(id)
	if err != nil {
		return domain.FragmentResult{}, err
	}
	n, err := p.doc.Append(in.Selector, in.HTML)
	if err != nil {
		return domain.FragmentResult{}, perr.WithField(err, "selector")
	}
	logger.C(pnet.WithPage(ctx, id)).Debug().Str("selector", in.Selector).Int("matched", n).Msg("fragment appended")
	return domain.FragmentResult{ID: id, Matched: n}, nil
}

// Remove detaches every element matching selector
func (s *Svc) Remove(ctx context.Context, id, selector string) (domain.FragmentResult, error) {
	p, err := s.lookup(id)
	if err != nil {
		return domain.FragmentResult{}, err
	}
	n, err := p.doc.Remove(selector)
	if err != nil {
		return domain.FragmentResult{}, perr.WithField(err, "selector")
	}
	logger.C(pnet.WithPage(ctx, id)).Debug().Str("selector", selector).Int("matched", n).Msg("elements removed")
	return domain.FragmentResult{ID: id, Matched: n}, nil
}

// Delete detaches and forgets a page
func (s *Svc) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	p, ok := s.pages[id]
	if ok {
		delete(s.pages, id)
	}
	s.mu.Unlock()
	if !ok {
		return perr.NotFoundf("page %q not found", id)
	}
	s.drv.Detach(p.doc)
	logger.C(pnet.WithPage(ctx, id)).Info().Msg("page detached")
	return nil
}

// Count reports the number of pages in the registry
func (s *Svc) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Close detaches every page
func (s *Svc) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.pages {
		s.drv.Detach(p.doc)
		delete(s.pages, id)
	}
}

func (s *Svc) lookup(id string) (*page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, perr.NotFoundf("page %q not found", id)
	}
	return p, nil
}
