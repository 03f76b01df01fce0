// Package sqlstore provides the SQL-backed implementation of the
// storage.Storage interface. The same queries run against SQLite (a single
// file on disk, the default) and PostgreSQL; only the schema DDL differs.
//
// An engineer lives in two tables: the software_engineers row itself and
// one software_engineer_tech_stack row per technology, keyed by the parent
// id and an explicit sort_order so the stack comes back in the order it
// was saved.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/engineers-api/internal/config"
	"github.com/aanand-mishra/engineers-api/internal/storage"
	"github.com/aanand-mishra/engineers-api/internal/storage/db"
	"github.com/aanand-mishra/engineers-api/internal/types"
)

// Store is the concrete implementation of storage.Storage.
type Store struct {
	db      *db.DB
	dialect dialect
}

var _ storage.Storage = (*Store)(nil)

const (
	sqlInsertEngineer = `
		INSERT INTO software_engineers (name, learning_path_recommendations)
		VALUES ($1, $2)
		RETURNING id`

	sqlUpdateEngineer = `
		UPDATE software_engineers
		SET    name = $1, learning_path_recommendations = $2
		WHERE  id = $3`

	sqlGetEngineer = `
		SELECT id, name, learning_path_recommendations
		FROM   software_engineers
		WHERE  id = $1`

	sqlListEngineers = `
		SELECT id, name, learning_path_recommendations
		FROM   software_engineers
		ORDER  BY id`

	sqlExistsEngineer = `
		SELECT EXISTS (SELECT 1 FROM software_engineers WHERE id = $1)`

	sqlCountEngineers = `
		SELECT COUNT(*) FROM software_engineers`

	sqlDeleteEngineer = `
		DELETE FROM software_engineers WHERE id = $1`

	sqlInsertTech = `
		INSERT INTO software_engineer_tech_stack (software_engineer_id, sort_order, tech_stack)
		VALUES ($1, $2, $3)`

	sqlDeleteTechStack = `
		DELETE FROM software_engineer_tech_stack WHERE software_engineer_id = $1`

	sqlGetTechStack = `
		SELECT tech_stack
		FROM   software_engineer_tech_stack
		WHERE  software_engineer_id = $1
		ORDER  BY sort_order`

	sqlListTechStacks = `
		SELECT software_engineer_id, tech_stack
		FROM   software_engineer_tech_stack
		ORDER  BY software_engineer_id, sort_order`
)

// New opens the database described by cfg, creates the tables if they do
// not exist yet, and returns a ready-to-use *Store.
//
// hooks are attached to every statement the store runs (see db.NewLogHook
// and db.NewMetricsHook).
func New(cfg config.Database, hooks ...db.Hook) (*Store, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("sqlstore.New: %w", err)
	}

	conn, err := db.Open(db.Config{
		DriverName:   d.driverName,
		DSN:          cfg.DSN,
		MaxOpenConns: cfg.MaxOpenConns,
		Hooks:        hooks,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore.New: %w", err)
	}

	ctx := context.Background()
	for _, stmt := range d.schema {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("sqlstore.New: create schema: %w", err)
		}
	}

	return &Store{db: conn, dialect: d}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

// Product returns the database product name, e.g. "PostgreSQL".
func (s *Store) Product() string { return s.dialect.product }

// Version asks the server for its version string.
func (s *Store) Version(ctx context.Context) (string, error) {
	var v string
	if err := s.db.QueryRow(ctx, s.dialect.versionQuery).Scan(&v); err != nil {
		return "", fmt.Errorf("Version: %w", err)
	}
	return v, nil
}

// FindAll returns every engineer ordered by id, each with its stack.
func (s *Store) FindAll(ctx context.Context) ([]types.Engineer, error) {
	rows, err := s.db.Query(ctx, sqlListEngineers)
	if err != nil {
		return nil, fmt.Errorf("FindAll: query: %w", err)
	}
	defer rows.Close()

	engineers := make([]types.Engineer, 0)
	index := make(map[int64]int)
	for rows.Next() {
		e, err := scanEngineer(rows)
		if err != nil {
			return nil, fmt.Errorf("FindAll: scan row: %w", err)
		}
		index[e.ID] = len(engineers)
		engineers = append(engineers, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: rows iteration: %w", err)
	}

	stackRows, err := s.db.Query(ctx, sqlListTechStacks)
	if err != nil {
		return nil, fmt.Errorf("FindAll: query tech stacks: %w", err)
	}
	defer stackRows.Close()

	for stackRows.Next() {
		var (
			id   int64
			tech string
		)
		if err := stackRows.Scan(&id, &tech); err != nil {
			return nil, fmt.Errorf("FindAll: scan tech: %w", err)
		}
		// a row inserted after the first query is simply not listed
		if i, ok := index[id]; ok {
			engineers[i].TechStack = append(engineers[i].TechStack, tech)
		}
	}
	if err := stackRows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: tech rows iteration: %w", err)
	}

	return engineers, nil
}

// FindByID returns storage.ErrNotFound when no engineer has the id.
func (s *Store) FindByID(ctx context.Context, id int64) (types.Engineer, error) {
	return findByID(ctx, s.db, id)
}

// ExistsByID reports whether an engineer with the id is stored.
func (s *Store) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, sqlExistsEngineer, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByID: %w", err)
	}
	return exists, nil
}

// Count returns the number of stored engineers.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, sqlCountEngineers).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// Save inserts a new engineer (zero ID) or overwrites an existing one.
// The parent row and the whole tech stack are written in one transaction,
// so a reader never sees a half-replaced stack.
func (s *Store) Save(ctx context.Context, e types.Engineer) (types.Engineer, error) {
	e.Normalize()

	err := s.db.ExecTx(ctx, func(tx *db.Tx) error {
		if e.ID == 0 {
			if err := tx.QueryRow(ctx, sqlInsertEngineer, e.Name, e.LearningPathRecommendations).Scan(&e.ID); err != nil {
				return fmt.Errorf("insert: %w", err)
			}
		} else {
			res, err := tx.Exec(ctx, sqlUpdateEngineer, e.Name, e.LearningPathRecommendations, e.ID)
			if err != nil {
				return fmt.Errorf("update: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("update: rows affected: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("no engineer found with id %d: %w", e.ID, storage.ErrNotFound)
			}
			if _, err := tx.Exec(ctx, sqlDeleteTechStack, e.ID); err != nil {
				return fmt.Errorf("clear tech stack: %w", err)
			}
		}

		for i, tech := range e.TechStack {
			if _, err := tx.Exec(ctx, sqlInsertTech, e.ID, i, tech); err != nil {
				return fmt.Errorf("insert tech %q: %w", tech, err)
			}
		}
		return nil
	})
	if err != nil {
		return types.Engineer{}, fmt.Errorf("Save: %w", err)
	}

	return e, nil
}

// DeleteByID removes the engineer and its tech stack rows.
// Returns storage.ErrNotFound if nothing was deleted.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	err := s.db.ExecTx(ctx, func(tx *db.Tx) error {
		if _, err := tx.Exec(ctx, sqlDeleteTechStack, id); err != nil {
			return fmt.Errorf("delete tech stack: %w", err)
		}
		res, err := tx.Exec(ctx, sqlDeleteEngineer, id)
		if err != nil {
			return fmt.Errorf("delete engineer: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("no engineer found with id %d: %w", id, storage.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

func findByID(ctx context.Context, q db.Querier, id int64) (types.Engineer, error) {
	var (
		e   types.Engineer
		rec sql.NullString
	)
	err := q.QueryRow(ctx, sqlGetEngineer, id).Scan(&e.ID, &e.Name, &rec)
	if err != nil {
		if db.IsNotFound(err) {
			return types.Engineer{}, fmt.Errorf("no engineer found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Engineer{}, fmt.Errorf("FindByID: scan: %w", err)
	}
	if rec.Valid {
		e.LearningPathRecommendations = &rec.String
	}

	rows, err := q.Query(ctx, sqlGetTechStack, id)
	if err != nil {
		return types.Engineer{}, fmt.Errorf("FindByID: query tech stack: %w", err)
	}
	defer rows.Close()

	e.TechStack = make([]string, 0)
	for rows.Next() {
		var tech string
		if err := rows.Scan(&tech); err != nil {
			return types.Engineer{}, fmt.Errorf("FindByID: scan tech: %w", err)
		}
		e.TechStack = append(e.TechStack, tech)
	}
	if err := rows.Err(); err != nil {
		return types.Engineer{}, fmt.Errorf("FindByID: tech rows iteration: %w", err)
	}

	return e, nil
}

// scanEngineer reads the id, name and recommendation columns of one
// engineer row. The tech stack is filled in separately.
func scanEngineer(rows *sql.Rows) (types.Engineer, error) {
	var (
		e   types.Engineer
		rec sql.NullString
	)
	if err := rows.Scan(&e.ID, &e.Name, &rec); err != nil {
		return types.Engineer{}, err
	}
	if rec.Valid {
		e.LearningPathRecommendations = &rec.String
	}
	e.TechStack = make([]string, 0)
	return e, nil
}
