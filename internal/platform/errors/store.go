package errors

// Storage helpers: map pgx failures onto ErrorCode and decide retries

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrSerializationFailure   = "40001"
	pgErrDeadlockDetected       = "40P01"
	pgErrLockNotAvailable       = "55P03"
	pgErrReadOnlySQLTransaction = "25006"
	pgErrCannotConnectNow       = "57P03"
	pgErrUndefinedTable         = "42P01"
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// StoreErrorCode classifies a storage error. Contention, read-only replicas
// and servers still starting are Unavailable; the rest is DB
func StoreErrorCode(err error) ErrorCode {
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgErrReadOnlySQLTransaction, pgErrCannotConnectNow,
			pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable:
			return ErrorCodeUnavailable
		case pgErrUndefinedTable:
			return ErrorCodeNotFound
		}
		return ErrorCodeDB
	}
	if IsRetryable(err) {
		return ErrorCodeUnavailable
	}
	return ErrorCodeDB
}

// FromStore wraps a storage error with its mapped code. nil stays nil
func FromStore(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, StoreErrorCode(err), msg)
}

// IsRetryable reports whether a storage error is a transient condition.
// Local cancellations and timeouts are never retryable here
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	root := Root(err)
	if pgErr, ok := ExtractPgError(root); ok {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(root.Error())
	switch {
	case strings.Contains(s, "commit unexpectedly resulted in rollback"),
		strings.Contains(s, "deadlock detected"),
		strings.Contains(s, "could not serialize access"),
		strings.Contains(s, "database is locked"),
		strings.Contains(s, "terminating connection due to administrator command"):
		return true
	}
	return false
}
