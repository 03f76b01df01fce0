package sqlstore

import (
	"fmt"

	// Blank imports: side-effect only. Each registers a database/sql
	// driver ("sqlite3" and "pgx") in its init().
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// dialect captures the few places where SQLite and PostgreSQL differ.
// Everything else (queries, placeholders) is shared: SQLite accepts the
// $N placeholders as long as they first appear in ascending order.
type dialect struct {
	// driverName is what database/sql knows the driver as.
	driverName string

	// product is reported by the health check.
	product string

	// schema is executed statement by statement at startup.
	// Every statement must be idempotent.
	schema []string

	// versionQuery returns a single text column with the server version.
	versionQuery string
}

var dialects = map[string]dialect{
	"sqlite3": {
		driverName: "sqlite3",
		product:    "SQLite",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS software_engineers (
				id                            INTEGER PRIMARY KEY AUTOINCREMENT,
				name                          TEXT    NOT NULL,
				learning_path_recommendations TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS software_engineer_tech_stack (
				software_engineer_id INTEGER NOT NULL REFERENCES software_engineers (id) ON DELETE CASCADE,
				sort_order           INTEGER NOT NULL,
				tech_stack           TEXT    NOT NULL,
				PRIMARY KEY (software_engineer_id, sort_order)
			)`,
		},
		versionQuery: `SELECT sqlite_version()`,
	},
	"postgres": {
		driverName: "pgx",
		product:    "PostgreSQL",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS software_engineers (
				id                            BIGSERIAL PRIMARY KEY,
				name                          TEXT NOT NULL,
				learning_path_recommendations TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS software_engineer_tech_stack (
				software_engineer_id BIGINT  NOT NULL REFERENCES software_engineers (id) ON DELETE CASCADE,
				sort_order           INTEGER NOT NULL,
				tech_stack           TEXT    NOT NULL,
				PRIMARY KEY (software_engineer_id, sort_order)
			)`,
		},
		versionQuery: `SHOW server_version`,
	},
}

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}
