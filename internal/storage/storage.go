// Package storage defines the Storage interface, a contract that any
// database backend must satisfy to work with this application.
//
// The engineer service depends only on this interface, so tests can pass
// a fake and main.go can pick SQLite or PostgreSQL without touching the
// service or the handlers.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/engineers-api/internal/types"
)

// ErrNotFound is returned when an operation targets an id with no row.
var ErrNotFound = errors.New("storage: engineer not found")

// Storage is the repository contract for engineer records.
type Storage interface {
	// FindAll returns every engineer ordered by id.
	// Returns an empty slice (not nil) if there are none.
	FindAll(ctx context.Context) ([]types.Engineer, error)

	// FindByID fetches a single engineer by primary key.
	// Returns ErrNotFound if no row matches.
	FindByID(ctx context.Context, id int64) (types.Engineer, error)

	// ExistsByID reports whether a row with the given id exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Save inserts the engineer when its ID is zero and returns it with the
	// generated ID. Otherwise it overwrites every field of the row with the
	// same ID (ErrNotFound if there is none).
	Save(ctx context.Context, engineer types.Engineer) (types.Engineer, error)

	// DeleteByID removes an engineer and its tech stack. Callers are
	// expected to check existence first.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of stored engineers.
	Count(ctx context.Context) (int64, error)
}
