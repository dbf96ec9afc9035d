package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestStoreErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{&pgconn.PgError{Code: pgErrCannotConnectNow}, ErrorCodeUnavailable},
		{&pgconn.PgError{Code: pgErrDeadlockDetected}, ErrorCodeUnavailable},
		{&pgconn.PgError{Code: pgErrUndefinedTable}, ErrorCodeNotFound},
		{&pgconn.PgError{Code: "23505"}, ErrorCodeDB},
		{fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgErrReadOnlySQLTransaction}), ErrorCodeUnavailable},
		{stderrs.New("database is locked"), ErrorCodeUnavailable},
		{stderrs.New("boom"), ErrorCodeDB},
	}
	for _, c := range cases {
		if got := StoreErrorCode(c.err); got != c.want {
			t.Fatalf("StoreErrorCode(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestFromStore(t *testing.T) {
	if FromStore(nil, "x") != nil {
		t.Fatalf("nil must stay nil")
	}
	err := FromStore(&pgconn.PgError{Code: pgErrLockNotAvailable}, "save")
	if !IsCode(err, ErrorCodeUnavailable) {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if _, ok := ExtractPgError(err); !ok {
		t.Fatalf("pg error lost in wrap")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("op: %w", context.DeadlineExceeded), false},
		{&pgconn.PgError{Code: pgErrSerializationFailure}, true},
		{&pgconn.PgError{Code: "23505"}, false},
		{stderrs.New("commit unexpectedly resulted in rollback"), true},
		{Wrap(stderrs.New("database is locked"), ErrorCodeDB, "save"), true},
		{stderrs.New("syntax error"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("IsRetryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
