package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoRows is returned by Row.Scan when the query matched nothing, whatever the backend
var ErrNoRows = errors.New("store: no rows in result set")

// sqlAdapter wraps a database/sql pool (sqlite) and implements TxRunner
type sqlAdapter struct {
	db   *sql.DB
	hook traceHook
}

func newSQLAdapter(db *sql.DB, hook traceHook) *sqlAdapter { return &sqlAdapter{db: db, hook: hook} }

func (a *sqlAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *sqlAdapter) Close() error { return a.db.Close() }

func (a *sqlAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return execOn(ctx, a.db, a.hook, q, args)
}

func (a *sqlAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return queryOn(ctx, a.db, a.hook, q, args)
}

func (a *sqlAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return queryRowOn(ctx, a.db, a.hook, q, args)
}

func (a *sqlAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlTx{tx: tx, hook: a.hook}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlTx struct {
	tx   *sql.Tx
	hook traceHook
}

func (t sqlTx) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return execOn(ctx, t.tx, t.hook, q, args)
}

func (t sqlTx) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return queryOn(ctx, t.tx, t.hook, q, args)
}

func (t sqlTx) QueryRow(ctx context.Context, q string, args ...any) Row {
	return queryRowOn(ctx, t.tx, t.hook, q, args)
}

// conn is the part of *sql.DB and *sql.Tx the adapters need
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func execOn(ctx context.Context, c conn, hook traceHook, q string, args []any) (CommandTag, error) {
	start := time.Now()
	res, err := c.ExecContext(ctx, q, args...)
	hook.emit(ctx, q, args, time.Since(start).Microseconds(), err)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	return sqlTag{n: n}, nil
}

func queryOn(ctx context.Context, c conn, hook traceHook, q string, args []any) (Rows, error) {
	start := time.Now()
	rs, err := c.QueryContext(ctx, q, args...)
	hook.emit(ctx, q, args, time.Since(start).Microseconds(), err)
	if err != nil {
		return nil, err
	}
	return &sqlRows{r: rs}, nil
}

func queryRowOn(ctx context.Context, c conn, hook traceHook, q string, args []any) Row {
	start := time.Now()
	r := c.QueryRowContext(ctx, q, args...)
	return sqlRow{r: r, after: func(err error) {
		hook.emit(ctx, q, args, time.Since(start).Microseconds(), err)
	}}
}

type sqlRow struct {
	r     *sql.Row
	after func(error)
}

func (x sqlRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	x.after(err)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

type sqlRows struct{ r *sql.Rows }

func (x *sqlRows) Next() bool            { return x.r.Next() }
func (x *sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *sqlRows) Err() error            { return x.r.Err() }
func (x *sqlRows) Close()                { _ = x.r.Close() }
func (x *sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type sqlTag struct{ n int64 }

func (t sqlTag) String() string      { return fmt.Sprintf("OK %d", t.n) }
func (t sqlTag) RowsAffected() int64 { return t.n }
