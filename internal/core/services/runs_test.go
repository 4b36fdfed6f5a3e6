package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/f5lake/internal/core/domain"
)

func TestRunService(t *testing.T) {
	ctx := context.Background()
	runStore := memory.NewRunStore()
	recordStore := memory.NewRecordStore()
	svc := NewRunService(runStore, recordStore)

	base := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, runStore.Save(ctx, domain.BatchRun{
			ID:        id,
			Status:    domain.RunSucceeded,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r3", runs[0].ID)

	run, err := svc.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", run.ID)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, "r1"))
	assert.ErrorIs(t, svc.Delete(ctx, "r1"), domain.ErrNotFound)

	errRec := domain.NewEnrichedRecord(domain.NormalizedRecord{})
	errRec.StatusCategory = domain.StatusServerError
	okRec := domain.NewEnrichedRecord(domain.NormalizedRecord{})
	okRec.StatusCategory = domain.StatusSuccess
	require.NoError(t, recordStore.Write(ctx, []domain.EnrichedRecord{okRec, errRec, okRec}))

	recent, err := svc.RecentRecords(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	breakdown, err := svc.StatusBreakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{domain.StatusSuccess: 2, domain.StatusServerError: 1}, breakdown)
}

func TestRunService_NoStores(t *testing.T) {
	ctx := context.Background()
	svc := NewRunService(nil, nil)

	_, err := svc.List(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.Delete(ctx, "x"), domain.ErrNotImplemented)

	recent, err := svc.RecentRecords(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	breakdown, err := svc.StatusBreakdown(ctx)
	require.NoError(t, err)
	assert.Empty(t, breakdown)
}
