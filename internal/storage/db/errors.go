package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("db: record not found")

	// ErrDuplicateKey is returned on unique or primary key violations.
	ErrDuplicateKey = errors.New("db: duplicate key")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails.
	ErrForeignKeyViolation = errors.New("db: foreign key violation")

	// ErrTimeout is returned when a statement was cancelled or ran past
	// its deadline.
	ErrTimeout = errors.New("db: query timeout")

	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("db: connection failed")
)

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }

// DBError pairs a sentinel with the original driver error, so callers can
// use errors.Is(err, ErrDuplicateKey) and still reach the driver detail.
type DBError struct {
	Sentinel error
	Cause    error
}

func (e *DBError) Error() string        { return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause) }
func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// mapErr translates driver errors into the sentinels above. Errors it
// does not recognise pass through untouched.
func mapErr(err error) error {
	if err == nil {
		return nil
	}

	var dbe *DBError
	if errors.As(err, &dbe) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		if s := sentinelForSQLState(pge.Code); s != nil {
			return &DBError{Sentinel: s, Cause: err}
		}
		return err
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		if s := sentinelForSQLite(se); s != nil {
			return &DBError{Sentinel: s, Cause: err}
		}
	}

	return err
}

// PostgreSQL SQLSTATE codes: https://www.postgresql.org/docs/current/errcodes-appendix.html
func sentinelForSQLState(code string) error {
	switch code {
	case "23505": // unique_violation
		return ErrDuplicateKey
	case "23503": // foreign_key_violation
		return ErrForeignKeyViolation
	case "57014": // query_canceled
		return ErrTimeout
	case "08000", "08003", "08006", "08001", "08004", "08007", "08P01":
		return ErrConnectionFailed
	}
	return nil
}

func sentinelForSQLite(se sqlite3.Error) error {
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrDuplicateKey
	case sqlite3.ErrConstraintForeignKey:
		return ErrForeignKeyViolation
	}
	if se.Code == sqlite3.ErrCantOpen {
		return ErrConnectionFailed
	}
	return nil
}
