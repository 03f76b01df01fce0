// Package db is a thin, context-aware wrapper around database/sql.
// It is NOT an ORM: all SQL stays explicit in the callers. What it adds
// is hook dispatch around every statement, one error vocabulary across
// drivers, and a commit-or-rollback transaction helper.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Config holds all options for opening and managing the connection pool.
type Config struct {
	// DriverName is the database/sql driver: "sqlite3" or "pgx".
	DriverName string

	// DSN is the driver-specific data-source name.
	DSN string

	// MaxOpenConns caps the pool. Zero leaves the driver default.
	MaxOpenConns int

	// Hooks run around every statement (logging, metrics).
	// Nil entries are skipped.
	Hooks []Hook
}

// DB wraps *sql.DB. A single DB is safe for concurrent use.
type DB struct {
	sqldb *sql.DB
	hooks hookChain
}

// Open opens the database described by cfg and verifies connectivity with
// Ping. Callers must Close it on shutdown.
func Open(cfg Config) (*DB, error) {
	if cfg.DriverName == "" {
		return nil, fmt.Errorf("db.Open: driver name must not be empty")
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.Open: DSN must not be empty")
	}

	sqldb, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db.Open: open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open: ping: %w", mapErr(err))
	}

	return &DB{sqldb: sqldb, hooks: newHookChain(cfg.Hooks)}, nil
}

// Close closes all pooled connections.
func (d *DB) Close() error { return d.sqldb.Close() }

// Ping verifies that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return mapErr(d.sqldb.PingContext(ctx))
}

// Exec executes a statement that returns no rows.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	res, err := d.sqldb.ExecContext(ctx, query, args...)
	err = mapErr(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return res, err
}

// Query executes a query that returns rows. The caller MUST close the rows.
func (d *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	rows, err := d.sqldb.QueryContext(ctx, query, args...)
	err = mapErr(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a query expected to return at most one row.
// Scan on the result returns ErrNotFound when nothing matched.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *Row {
	start := time.Now()
	d.hooks.Before(ctx, query, args)
	raw := d.sqldb.QueryRowContext(ctx, query, args...)
	// the error is only known at Scan time
	d.hooks.After(ctx, query, args, time.Since(start), nil)
	return &Row{raw: raw}
}

// Row wraps *sql.Row and maps its Scan error.
type Row struct {
	raw *sql.Row
}

// Scan copies the matched row into dest.
func (r *Row) Scan(dest ...any) error {
	return mapErr(r.raw.Scan(dest...))
}
