package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Tx mirrors the DB query surface so repository code can run against
// either one through Querier.
type Tx struct {
	sqltx *sql.Tx
	hooks hookChain
}

// Exec executes a statement that does not return rows.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	res, err := t.sqltx.ExecContext(ctx, query, args...)
	err = mapErr(err)
	t.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Query executes a query returning rows. The caller MUST close the rows.
func (t *Tx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	rows, err := t.sqltx.QueryContext(ctx, query, args...)
	err = mapErr(err)
	t.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a query expected to return at most one row.
func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) *Row {
	start := time.Now()
	t.hooks.Before(ctx, query, args)
	raw := t.sqltx.QueryRowContext(ctx, query, args...)
	t.hooks.After(ctx, query, args, time.Since(start), nil)
	return &Row{raw: raw}
}

// ExecTx starts a transaction, runs fn, and commits when fn returns nil.
// Any error or panic from fn rolls the transaction back.
//
//	err := d.ExecTx(ctx, func(tx *db.Tx) error {
//	    if _, err := tx.Exec(ctx, "DELETE FROM children WHERE parent_id = $1", id); err != nil {
//	        return err
//	    }
//	    _, err := tx.Exec(ctx, "DELETE FROM parents WHERE id = $1", id)
//	    return err
//	})
func (d *DB) ExecTx(ctx context.Context, fn func(*Tx) error) (err error) {
	sqltx, err := d.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}

	// Once Commit has been called the transaction is finished whatever it
	// returned, so only fn's failures and panics are rolled back.
	committing := false
	defer func() {
		if p := recover(); p != nil {
			_ = sqltx.Rollback()
			panic(p)
		}
		if err == nil || committing {
			return
		}
		if rbErr := sqltx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = fmt.Errorf("db: rollback failed (%v) after: %w", rbErr, err)
		}
	}()

	if err = fn(&Tx{sqltx: sqltx, hooks: d.hooks}); err != nil {
		return err
	}
	committing = true
	if err = sqltx.Commit(); err != nil {
		return mapErr(err)
	}
	return nil
}

// Querier is the surface shared by *DB and *Tx.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *Row
}

var (
	_ Querier = (*DB)(nil)
	_ Querier = (*Tx)(nil)
)
