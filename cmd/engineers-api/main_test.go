package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/engineers-api/internal/config"
	"github.com/aanand-mishra/engineers-api/internal/storage/sqlstore"
	"github.com/aanand-mishra/engineers-api/internal/types"
)

func testConfig(dsn, apiKey string) *config.Config {
	return &config.Config{
		Env:  "dev",
		Seed: true,
		HTTPServer: config.HTTPServer{
			Addr:     "localhost:0",
			Resource: "api/v1/software-engineers",
		},
		Database: config.Database{Driver: "sqlite3", DSN: dsn},
		AI:       config.AI{Provider: "gemini", APIKey: apiKey, Model: "gemini-2.5-flash"},
	}
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestNewServer_WiresRoutes(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "engineers.db")

	server, store, err := newServer(context.Background(), testConfig(dsn, "test-key"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/software-engineers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var engineers []types.Engineer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&engineers))
	assert.Len(t, engineers, 5)

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/db-check", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Connected to: SQLite"), rec.Body.String())

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "engineers_db_queries_total")
}

// In exclusive locking mode SQLite keeps the file locked for as long as
// the connection that wrote it stays open, so a second store can only
// open the file if the failed startup closed the first one.
func TestNewServer_ClosesStoreOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engineers.db")

	_, _, err := newServer(context.Background(),
		testConfig(path+"?_locking_mode=EXCLUSIVE", ""), discardLogger())
	require.ErrorContains(t, err, "initialise chat client")

	again, err := sqlstore.New(config.Database{Driver: "sqlite3", DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })

	n, err := again.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
