package store

import (
	"context"

	perr "github.com/judell/word-replacer/internal/platform/errors"
)

// ExecOne runs a write that must touch exactly one row, such as the upsert
// of the singleton config row
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if n := tag.RowsAffected(); n != 1 {
		return perr.Newf(perr.ErrorCodeDB, "write touched %d rows, want 1", n)
	}
	return nil
}

// One scans the single row sql returns. No rows is perr.ErrNotFound and a
// second row is an error
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (out T, err error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		if n++; n > 1 {
			return out, perr.New(perr.ErrorCodeDB, "query returned more than one row")
		}
		if out, err = scan(rows); err != nil {
			return out, err
		}
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	if n == 0 {
		return out, perr.ErrNotFound
	}
	return out, nil
}
