// Package store provides a unified interface to the optional storage backends:
// a SQL database (postgres or sqlite) behind TxRunner and ClickHouse behind Clickhouse
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/judell/word-replacer/internal/platform/logger"
)

// Store is the facade for optional backends.
// The zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// SQL is the relational seam, nil when disabled
	SQL TxRunner

	// Dialect tells SQL backends apart for the few statements that differ
	Dialect Dialect

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse

	tracer QueryTracer
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the append-only seam the scan report sink writes through.
// Each row lists values in the table's column order
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, rows [][]any) error
	Ping(ctx context.Context) error
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the requested backends.
// Backends not enabled in cfg remain nil on the Store
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Logger()

	switch cfg.SQL.Driver {
	case "":
	case DialectPostgres:
		q, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.SQL, s.Dialect = q, DialectPostgres
	case DialectSQLite:
		q, err := openSQLite(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.SQL, s.Dialect = q, DialectSQLite
	default:
		return nil, fmt.Errorf("store: unknown sql driver %q", cfg.SQL.Driver)
	}

	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}

	return s, nil
}

// Guard pings every configured seam that can be pinged
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if p, ok := s.SQL.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Dialect, err))
		}
	}
	if s.CH != nil {
		if err := s.CH.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes all initialized backends; nil backends are ignored
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		if e := s.CH.Close(); e != nil {
			errs = append(errs, e)
		}
	}
	if c, ok := s.SQL.(interface{ Close() error }); ok {
		if e := c.Close(); e != nil {
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}
