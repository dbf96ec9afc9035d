package store

import (
	"github.com/judell/word-replacer/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithTracer installs a query tracer regardless of SQLConfig.LogSQL
func WithTracer(t QueryTracer) Option {
	return func(s *Store) error {
		s.tracer = t
		return nil
	}
}
