package store

import (
	"regexp"
	"time"
)

// Dialect names a SQL backend
type Dialect string

const (
	// DialectPostgres is postgres through pgx
	DialectPostgres Dialect = "postgres"
	// DialectSQLite is sqlite through database/sql and go-sqlite3
	DialectSQLite Dialect = "sqlite"
)

var pgPlaceholder = regexp.MustCompile(`\$\d+`)

// Rebind rewrites $n placeholders for the dialect. Statements are written
// postgres style; sqlite gets positional ? markers, so every $n must appear
// once and in order
func (d Dialect) Rebind(sql string) string {
	if d != DialectSQLite {
		return sql
	}
	return pgPlaceholder.ReplaceAllString(sql, "?")
}

// Config aggregates per backend configuration
type Config struct {
	AppName string

	SQL SQLConfig
	CH  CHConfig
}

// SQLConfig configures the relational backend
type SQLConfig struct {
	// Driver is DialectPostgres, DialectSQLite or empty for none
	Driver Dialect
	// URL is the postgres DSN or the sqlite file path / DSN
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the startup ping loop (default 20)
	ConnectRetries int
	// PingTimeout bounds each startup ping (default 3s)
	PingTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	// Role is stamped into the client info, e.g. "api"
	Role string
}
