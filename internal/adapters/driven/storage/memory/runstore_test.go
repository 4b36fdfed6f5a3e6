package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

func TestRunStore_SaveGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := domain.BatchRun{
		ID:        "run-1",
		Source:    "/var/log/f5.log",
		Status:    domain.RunSucceeded,
		Stats:     domain.BatchStats{Total: 3, FlatTextCount: 3, Succeeded: 3},
		Pools:     []domain.PoolHealth{{Environment: "TEPROD", Pool: "p"}},
		StartedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Source, got.Source)
	assert.Equal(t, int64(3), got.Stats.Succeeded)

	run.Pools[0].Pool = "mutated"
	got, err = store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "p", got.Pools[0].Pool)
}

func TestRunStore_Errors(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, domain.BatchRun{}), domain.ErrInvalidInput)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, domain.BatchRun{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)

	runs, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	require.NoError(t, store.Delete(ctx, "c"))
	runs, err = store.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "b", runs[0].ID)
}
