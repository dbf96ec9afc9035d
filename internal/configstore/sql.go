package configstore

import (
	"context"
	"encoding/json"

	"github.com/judell/word-replacer/internal/core/wordmap"
	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/store"
)

// The configuration is a single row (id = 1). Both JSON columns hold the
// document halves exactly as the file backend writes them
var schema = map[store.Dialect]string{
	store.DialectPostgres: `CREATE TABLE IF NOT EXISTS word_config (
		id              SMALLINT PRIMARY KEY CHECK (id = 1),
		word_mappings   JSONB NOT NULL DEFAULT '{}'::jsonb,
		word_exceptions JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	store.DialectSQLite: `CREATE TABLE IF NOT EXISTS word_config (
		id              INTEGER PRIMARY KEY CHECK (id = 1),
		word_mappings   TEXT NOT NULL DEFAULT '{}',
		word_exceptions TEXT NOT NULL DEFAULT '[]',
		updated_at      TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

const (
	selectConfig = `SELECT word_mappings, word_exceptions FROM word_config WHERE id = 1`

	upsertConfig = `INSERT INTO word_config (id, word_mappings, word_exceptions)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			word_mappings = excluded.word_mappings,
			word_exceptions = excluded.word_exceptions,
			updated_at = CURRENT_TIMESTAMP`
)

// SQL keeps the Configuration in a relational database
type SQL struct {
	st *store.Store
}

// NewSQL wraps an opened store and makes sure the table exists
func NewSQL(ctx context.Context, st *store.Store) (*SQL, error) {
	ddl, ok := schema[st.Dialect]
	if !ok || st.SQL == nil {
		return nil, perr.InvalidArgf("configstore: no sql backend (dialect %q)", st.Dialect)
	}
	if _, err := st.SQL.Exec(ctx, ddl); err != nil {
		return nil, perr.FromStore(err, "create word_config")
	}
	return &SQL{st: st}, nil
}

type row struct {
	mappings   string
	exceptions string
}

func scanRow(r store.Row) (row, error) {
	var x row
	return x, r.Scan(&x.mappings, &x.exceptions)
}

// Load reads the stored row. No row yet is an empty Configuration
func (s *SQL) Load(ctx context.Context) (*wordmap.Configuration, error) {
	r, err := store.One(ctx, s.st.SQL, scanRow, selectConfig)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return wordmap.Empty(), nil
	}
	if err != nil {
		return nil, perr.FromStore(err, "load word_config")
	}

	var doc wordmap.Document
	if err := json.Unmarshal([]byte(r.mappings), &doc.WordMappings); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode word_mappings")
	}
	if err := json.Unmarshal([]byte(r.exceptions), &doc.WordExceptions); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "decode word_exceptions")
	}
	return wordmap.New(doc), nil
}

// Save upserts the single row inside a transaction
func (s *SQL) Save(ctx context.Context, cfg *wordmap.Configuration) error {
	doc := cfg.Document()
	mappings, err := json.Marshal(doc.WordMappings)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode word_mappings")
	}
	exceptions, err := json.Marshal(doc.WordExceptions)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode word_exceptions")
	}

	q := s.st.Dialect.Rebind(upsertConfig)
	err = s.st.SQL.Tx(ctx, func(tx store.RowQuerier) error {
		return store.ExecOne(ctx, tx, q, string(mappings), string(exceptions))
	})
	return perr.FromStore(err, "save word_config")
}

// Close releases the database
func (s *SQL) Close(ctx context.Context) error { return s.st.Close(ctx) }

// Ping checks the database connection
func (s *SQL) Ping(ctx context.Context) error {
	if err := s.st.Guard(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "ping config store")
	}
	return nil
}
