//go:build integration

package containers

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/taibuivan/lineage/internal/platform/migration"
	pgstore "github.com/taibuivan/lineage/internal/platform/postgres"
)

// Logger discards output; container logs are noise in test runs.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// migrationsPath locates data/migrations relative to this file.
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}

// NewPostgres starts a PostgreSQL container, applies every migration and
// returns a pool connected to it.
func NewPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("lineage"),
		tcpostgres.WithUsername("lineage"),
		tcpostgres.WithPassword("lineage"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	if err := migration.RunUp(dsn, migrationsPath(), Logger()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	pool, err := pgstore.NewPool(ctx, dsn, Logger())
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
