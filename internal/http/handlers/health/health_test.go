package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/engineers-api/internal/config"
	"github.com/aanand-mishra/engineers-api/internal/http/handlers/health"
	"github.com/aanand-mishra/engineers-api/internal/storage/sqlstore"
)

type fakeDB struct {
	pingErr    error
	versionErr error
}

func (f fakeDB) Ping(context.Context) error { return f.pingErr }
func (f fakeDB) Product() string { return "PostgreSQL" }
func (f fakeDB) Version(context.Context) (string, error) {
	return "16.4", f.versionErr
}

func TestDBCheck(t *testing.T) {
	tests := []struct {
		name     string
		db       fakeDB
		wantCode int
		wantBody string
	}{
		{"connected", fakeDB{}, http.StatusOK, "Connected to: PostgreSQL version 16.4"},
		{"ping fails", fakeDB{pingErr: errors.New("connection refused")}, http.StatusServiceUnavailable, "database unreachable: connection refused"},
		{"version fails", fakeDB{versionErr: errors.New("timeout")}, http.StatusServiceUnavailable, "database version: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			health.DBCheck(tt.db)(rec, httptest.NewRequest(http.MethodGet, "/db-check", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestDBCheck_SQLite(t *testing.T) {
	store, err := sqlstore.New(config.Database{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "engineers.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := httptest.NewRecorder()
	health.DBCheck(store)(rec, httptest.NewRequest(http.MethodGet, "/db-check", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Connected to: SQLite version 3."), rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}
