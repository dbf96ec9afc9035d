// Package configstore persists the word-replacer Configuration.
// Backends: a JSON or YAML file, sqlite and postgres. All of them satisfy
// driver.ConfigStore and store the same document shape
package configstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/judell/word-replacer/internal/core/wordmap"
	"github.com/judell/word-replacer/internal/driver"
	"github.com/judell/word-replacer/internal/platform/logger"
	"github.com/judell/word-replacer/internal/platform/store"
)

// Store is a ConfigStore that holds resources
type Store interface {
	driver.ConfigStore
	Close(ctx context.Context) error
}

// Options selects and configures a backend
type Options struct {
	// Driver is "file", "sqlite" or "postgres" (default "file")
	Driver string
	// Path is the file path for "file" and "sqlite"
	Path string
	// URL is the postgres DSN
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
	AppName     string
}

// Open builds the backend named by opts.Driver
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", "file":
		if opts.Path == "" {
			return nil, fmt.Errorf("configstore: file driver needs a path")
		}
		return NewFile(opts.Path), nil
	case "sqlite", "sqlite3":
		return openSQL(ctx, opts, store.SQLConfig{Driver: store.DialectSQLite, URL: opts.Path})
	case "postgres", "pg", "pgsql":
		return openSQL(ctx, opts, store.SQLConfig{
			Driver:      store.DialectPostgres,
			URL:         opts.URL,
			MaxConns:    opts.MaxConns,
			LogSQL:      opts.LogSQL,
			SlowQueryMs: opts.SlowQueryMs,
		})
	default:
		return nil, fmt.Errorf("configstore: unknown driver %q", opts.Driver)
	}
}

func openSQL(ctx context.Context, opts Options, sc store.SQLConfig) (Store, error) {
	if sc.Driver == store.DialectSQLite {
		sc.LogSQL, sc.SlowQueryMs = opts.LogSQL, opts.SlowQueryMs
	}
	st, err := store.Open(ctx, store.Config{AppName: opts.AppName, SQL: sc},
		store.WithLogger(*logger.Named("configstore")))
	if err != nil {
		return nil, err
	}
	s, err := NewSQL(ctx, st)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	return s, nil
}

// Memory keeps the Configuration in process; it is the store of choice for
// tests and for one-shot CLI runs without a config file
type Memory struct {
	mu  sync.RWMutex
	cfg *wordmap.Configuration
}

// NewMemory returns a Memory store holding cfg (nil means empty)
func NewMemory(cfg *wordmap.Configuration) *Memory {
	if cfg == nil {
		cfg = wordmap.Empty()
	}
	return &Memory{cfg: cfg}
}

// Load returns the held Configuration
func (m *Memory) Load(context.Context) (*wordmap.Configuration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg, nil
}

// Save replaces the held Configuration
func (m *Memory) Save(_ context.Context, cfg *wordmap.Configuration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return nil
}

// Close is a no-op
func (m *Memory) Close(context.Context) error { return nil }
