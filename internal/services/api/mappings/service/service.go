// Package service contains mappings workflows. Every change is saved to the
// ConfigStore first and only then published to the driver, so a failed save
// leaves the Configuration in effect untouched
package service

import (
	"context"
	"strings"
	"sync"

	"github.com/judell/word-replacer/internal/core/wordmap"
	"github.com/judell/word-replacer/internal/driver"
	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/logger"
	"github.com/judell/word-replacer/internal/services/api/mappings/domain"
)

// Service defines the service contract for mappings
type Service interface{ domain.ServicePort }

// Svc implements Service
type Svc struct {
	drv   *driver.Driver
	store driver.ConfigStore

	// edits are read-modify-write on the latest committed document
	mu     sync.Mutex
	latest *wordmap.Configuration
}

// New creates a mappings service
func New(drv *driver.Driver, store driver.ConfigStore) *Svc {
	if drv == nil {
		panic("mappings.Service requires a non nil Driver")
	}
	if store == nil {
		panic("mappings.Service requires a non nil ConfigStore")
	}
	return &Svc{drv: drv, store: store}
}

// Get returns the Configuration in effect
func (s *Svc) Get(context.Context) domain.View { return domain.ViewOf(s.drv.Config()) }

// Replace swaps the whole document
func (s *Svc) Replace(ctx context.Context, in domain.Document) (domain.View, error) {
	return s.edit(ctx, func(wordmap.Document) (wordmap.Document, error) {
		return wordmap.Document{WordMappings: in.WordMappings, WordExceptions: in.WordExceptions}, nil
	})
}

// PutEntry adds target or replaces its replacement
func (s *Svc) PutEntry(ctx context.Context, in domain.EntryInput) (domain.View, error) {
	return s.edit(ctx, func(doc wordmap.Document) (wordmap.Document, error) {
		doc.WordMappings = append(doc.WordMappings, wordmap.Entry{Target: in.Target, Replacement: in.Replacement})
		return doc, nil
	})
}

// DeleteEntry removes target, matched case-insensitively
func (s *Svc) DeleteEntry(ctx context.Context, target string) (domain.View, error) {
	return s.edit(ctx, func(doc wordmap.Document) (wordmap.Document, error) {
		key := strings.ToLower(strings.TrimSpace(target))
		kept := doc.WordMappings[:0:0]
		for _, e := range doc.WordMappings {
			if e.Target != key {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(doc.WordMappings) {
			return doc, perr.NotFoundf("mapping %q", target)
		}
		doc.WordMappings = kept
		return doc, nil
	})
}

// AddException appends phrase; duplicates are absorbed by the ExceptionSet
func (s *Svc) AddException(ctx context.Context, in domain.ExceptionInput) (domain.View, error) {
	return s.edit(ctx, func(doc wordmap.Document) (wordmap.Document, error) {
		doc.WordExceptions = append(doc.WordExceptions, in.Phrase)
		return doc, nil
	})
}

// DeleteException removes phrase, matched case-insensitively
func (s *Svc) DeleteException(ctx context.Context, phrase string) (domain.View, error) {
	return s.edit(ctx, func(doc wordmap.Document) (wordmap.Document, error) {
		want := strings.TrimSpace(phrase)
		kept := doc.WordExceptions[:0:0]
		for _, p := range doc.WordExceptions {
			if !strings.EqualFold(p, want) {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(doc.WordExceptions) {
			return doc, perr.NotFoundf("exception %q", phrase)
		}
		doc.WordExceptions = kept
		return doc, nil
	})
}

func (s *Svc) edit(ctx context.Context, fn func(wordmap.Document) (wordmap.Document, error)) (domain.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.latest
	if base == nil {
		base = s.drv.Config()
	}
	doc, err := fn(base.Document())
	if err != nil {
		return domain.View{}, err
	}
	next := wordmap.New(doc)
	if err := s.drv.Commit(ctx, s.store, next); err != nil {
		logger.C(ctx).Error().Err(err).Msg("configuration change rejected")
		return domain.View{}, err
	}
	s.latest = next
	logger.C(ctx).Info().
		Int("targets", next.Table.Len()).
		Int("exceptions", next.Exceptions.Len()).
		Msg("configuration committed")
	return domain.ViewOf(next), nil
}
