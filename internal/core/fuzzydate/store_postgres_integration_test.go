//go:build integration

package fuzzydate_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lineage/internal/core/fuzzydate"
	"github.com/taibuivan/lineage/internal/platform/dberr"
	"github.com/taibuivan/lineage/internal/platform/testutil/containers"
)

/*
TestPostgresRepository_FindOrCreate stores each original text once, even under
concurrent inserts.
*/
func TestPostgresRepository_FindOrCreate(t *testing.T) {
	ctx := context.Background()
	repo := fuzzydate.NewPostgresRepository(containers.NewPostgres(t))

	date, _ := fuzzydate.New("BET 1900 AND 1930")
	stored, created, err := repo.FindOrCreate(ctx, date)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, fuzzydate.TypeBetween, stored.Type)
	assert.Equal(t, "1900-01-01", stored.SortKey.Format(fuzzydate.DateLayout))
	assert.Equal(t, "1930-12-31", stored.Latest.Format(fuzzydate.DateLayout))

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, _ := fuzzydate.New("BET 1900 AND 1930")
			existing, created, err := repo.FindOrCreate(ctx, again)
			if assert.NoError(t, err) {
				assert.False(t, created)
				ids[i] = existing.ID
			}
		}()
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, stored.ID, id)
	}

	byID, err := repo.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.OriginalText, byID.OriginalText)

	unresolved, _ := fuzzydate.New("unknown")
	blank, created, err := repo.FindOrCreate(ctx, unresolved)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, blank.SortKey)
	assert.Nil(t, blank.Year)

	_, err = repo.GetByID(ctx, "0190f7a0-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}
