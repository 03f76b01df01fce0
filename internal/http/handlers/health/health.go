// Package health serves the database connectivity probe.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/engineers-api/internal/utils/response"
)

// Database is the slice of the store the probe needs.
type Database interface {
	Ping(ctx context.Context) error
	Product() string
	Version(ctx context.Context) (string, error)
}

const probeTimeout = 3 * time.Second

// DBCheck handles GET /db-check.
//
// Success is 200 with a plain-text body such as
// "Connected to: SQLite version 3.45.1". Any failure is 503.
func DBCheck(db Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		version, err := probe(ctx, db)
		if err != nil {
			slog.WarnContext(r.Context(), "database check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(err))
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Connected to: %s version %s", db.Product(), version)
	}
}

func probe(ctx context.Context, db Database) (string, error) {
	if err := db.Ping(ctx); err != nil {
		return "", fmt.Errorf("database unreachable: %w", err)
	}
	version, err := db.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("database version: %w", err)
	}
	return version, nil
}
