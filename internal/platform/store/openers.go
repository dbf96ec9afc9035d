package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// registers the "sqlite3" database/sql driver
	_ "github.com/mattn/go-sqlite3"

	chx "github.com/judell/word-replacer/internal/platform/store/ch"
	"github.com/judell/word-replacer/internal/platform/store/pg"
)

var sqlOpen = sql.Open

func (s *Store) hook(cfg Config, d Dialect) traceHook {
	t := s.tracer
	if t == nil && cfg.SQL.LogSQL {
		t = Tracer(s.Log)
	}
	return traceHook{tracer: t, dialect: d, slowUS: int64(cfg.SQL.SlowQueryMs) * 1000}
}

// openPG opens the pgx pool and publishes the adapter only once the pool answers a ping
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.SQL.URL,
		MaxConns: cfg.SQL.MaxConns,
		AppName:  cfg.AppName,
	}, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.SQL.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	pingTimeout := cfg.SQL.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			return newPGAdapter(p, s.hook(cfg, DialectPostgres)), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Debug().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

// openSQLite opens a sqlite database. A single connection keeps writers from
// tripping over each other's locks
func openSQLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	if cfg.SQL.URL == "" {
		return nil, fmt.Errorf("store: sqlite needs a path")
	}
	db, err := sqlOpen("sqlite3", cfg.SQL.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite open %s: %w", cfg.SQL.URL, err)
	}
	return newSQLAdapter(db, s.hook(cfg, DialectSQLite)), nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, AppName: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return c, nil
}

var _ Clickhouse = (*chx.CH)(nil)
