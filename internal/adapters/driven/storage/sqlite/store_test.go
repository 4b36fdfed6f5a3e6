package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func ptr[T any](v T) *T { return &v }

func testRecord(status string, code int64, pool string) domain.EnrichedRecord {
	rec := domain.NewEnrichedRecord(domain.NormalizedRecord{
		TimestampSyslog: "Aug  8 03:33:33",
		Hostname:        "www.gub.uy",
		NodeEnvironment: "TEPROD",
		ResponseCode:    ptr(code),
		ResponseTimeMs:  ptr(int64(42)),
		PoolEnvironment: ptr(pool),
	})
	rec.StatusCategory = status
	rec.Year, rec.Month, rec.Day, rec.Hour = ptr(2025), ptr(8), ptr(8), ptr(3)
	rec.ProcessingTimestamp = "2025-08-09T12:00:00Z"
	return rec
}

// ==================== Store ====================

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DBName), store.Path())
	assert.FileExists(t, store.Path())

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Records().Write(context.Background(), []domain.EnrichedRecord{
		testRecord(domain.StatusSuccess, 200, "/Common/p"),
	}))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	recent, err := second.Records().Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestNewStore_InvalidDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	_, err := NewStore(file)
	assert.Error(t, err)
}

// ==================== Records ====================

func TestRecordStore_WriteAndRecent(t *testing.T) {
	ctx := context.Background()
	records := setupTestStore(t).Records()
	assert.Equal(t, "sqlite", records.Name())

	require.NoError(t, records.Write(ctx, nil))
	require.NoError(t, records.Write(ctx, []domain.EnrichedRecord{
		testRecord(domain.StatusSuccess, 200, "/Common/a"),
		testRecord(domain.StatusClientError, 404, "/Common/b"),
	}))
	require.NoError(t, records.Write(ctx, []domain.EnrichedRecord{
		testRecord(domain.StatusServerError, 503, "/Common/c"),
	}))

	recent, err := records.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(503), *recent[0].ResponseCode)
	assert.Equal(t, "/Common/b", *recent[1].PoolEnvironment)
	assert.Equal(t, "www.gub.uy", recent[0].Hostname)
	assert.Equal(t, 2025, *recent[0].Year)
	assert.Nil(t, recent[0].Referer)

	all, err := records.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, records.Close())
}

func TestRecordStore_CountByStatus(t *testing.T) {
	ctx := context.Background()
	records := setupTestStore(t).Records()

	counts, err := records.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, records.Write(ctx, []domain.EnrichedRecord{
		testRecord(domain.StatusSuccess, 200, "p"),
		testRecord(domain.StatusSuccess, 204, "p"),
		testRecord(domain.StatusServerError, 500, "p"),
	}))

	counts, err = records.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{domain.StatusSuccess: 2, domain.StatusServerError: 1}, counts)
}

func TestRecordStore_Write_Canceled(t *testing.T) {
	records := setupTestStore(t).Records()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := records.Write(ctx, []domain.EnrichedRecord{testRecord(domain.StatusSuccess, 200, "p")})
	assert.Error(t, err)
}

// ==================== Runs ====================

func TestRunStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()

	started := time.Date(2025, 8, 9, 10, 0, 0, 0, time.UTC)
	run := domain.BatchRun{
		ID:        "run-1",
		Source:    "/var/log/f5/access.log",
		Status:    domain.RunRunning,
		StartedAt: started,
	}
	require.NoError(t, runs.Save(ctx, run))

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunRunning, got.Status)
	assert.True(t, got.StartedAt.Equal(started))
	assert.True(t, got.FinishedAt.IsZero())
	assert.Nil(t, got.Pools)

	run.Status = domain.RunFailed
	run.Error = "read source: unexpected EOF"
	run.Stats = domain.BatchStats{Total: 3, FlatTextCount: 3, Succeeded: 2, ParseErrors: 1}
	run.Alerts = 1
	run.Pools = []domain.PoolHealth{{Environment: "TEPROD", Pool: "/Common/a", Requests: 2, HealthScore: 100}}
	run.FinishedAt = started.Add(time.Minute)
	require.NoError(t, runs.Save(ctx, run))

	got, err = runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunFailed, got.Status)
	assert.Equal(t, run.Error, got.Error)
	assert.Equal(t, run.Stats, got.Stats)
	assert.Equal(t, int64(1), got.Alerts)
	assert.Equal(t, run.Pools, got.Pools)
	assert.Equal(t, time.Minute, got.Duration())
}

func TestRunStore_Get_NotFound(t *testing.T) {
	_, err := setupTestStore(t).RunStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_Save_RequiresID(t *testing.T) {
	err := setupTestStore(t).RunStore().Save(context.Background(), domain.BatchRun{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	runs := setupTestStore(t).RunStore()

	base := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, runs.Save(ctx, domain.BatchRun{
			ID:        id,
			Source:    "s",
			Status:    domain.RunSucceeded,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	list, err := runs.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, runs.Delete(ctx, "c"))
	require.NoError(t, runs.Delete(ctx, "c"))

	list, err = runs.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
}
