package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

func record(method, status string) domain.EnrichedRecord {
	rec := domain.NewEnrichedRecord(domain.NormalizedRecord{Method: method})
	rec.StatusCategory = status
	return rec
}

func TestRecordStore_WriteAndRead(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	assert.Equal(t, "memory", store.Name())

	require.NoError(t, store.Write(ctx, []domain.EnrichedRecord{
		record("GET", domain.StatusSuccess),
		record("POST", domain.StatusClientError),
	}))
	require.NoError(t, store.Write(ctx, []domain.EnrichedRecord{
		record("PUT", domain.StatusSuccess),
	}))

	assert.Len(t, store.All(), 3)

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "PUT", recent[0].Method)
	assert.Equal(t, "POST", recent[1].Method)

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		domain.StatusSuccess:     2,
		domain.StatusClientError: 1,
	}, counts)
}

func TestRecordStore_Closed(t *testing.T) {
	store := NewRecordStore()
	require.NoError(t, store.Close())

	err := store.Write(context.Background(), []domain.EnrichedRecord{record("GET", "")})
	assert.ErrorIs(t, err, domain.ErrSinkClosed)

	recent, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
