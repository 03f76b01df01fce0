//go:build integration

package sqlstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aanand-mishra/engineers-api/internal/config"
	"github.com/aanand-mishra/engineers-api/internal/storage/sqlstore"
)

// newPostgresStore starts a throwaway PostgreSQL container. The test is
// skipped when no container runtime is available.
func newPostgresStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("engineers_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := sqlstore.New(config.Database{Driver: "postgres", DSN: dsn, MaxOpenConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Postgres(t *testing.T) {
	s := newPostgresStore(t)

	v, err := s.Version(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, v)
	assert.Equal(t, "PostgreSQL", s.Product())

	runStoreSuite(t, s)
}
