package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lineage/internal/platform/migration"
)

func TestPgx5DSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://lineage:secret@db:5432/lineage?sslmode=disable", "pgx5://lineage:secret@db:5432/lineage?sslmode=disable"},
		{"postgresql://db/lineage", "pgx5://db/lineage"},
		{"pgx5://db/lineage", "pgx5://db/lineage"},
		{"host=db dbname=lineage", "host=db dbname=lineage"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.Pgx5DSN(tt.dsn))
		})
	}
}
