package runs

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// mockRunService implements driving.RunService.
type mockRunService struct {
	runs  []domain.BatchRun
	err   error
	limit int
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.BatchRun, error) {
	m.limit = limit
	return m.runs, m.err
}

func (m *mockRunService) Get(context.Context, string) (*domain.BatchRun, error) {
	return nil, domain.ErrNotFound
}

func (m *mockRunService) Delete(context.Context, string) error { return nil }

func (m *mockRunService) RecentRecords(context.Context, int) ([]domain.EnrichedRecord, error) {
	return nil, nil
}

func (m *mockRunService) StatusBreakdown(context.Context) (map[string]int64, error) {
	return nil, nil
}

func testRuns() []domain.BatchRun {
	started := time.Date(2025, 8, 8, 3, 33, 0, 0, time.UTC)
	return []domain.BatchRun{
		{ID: "run-1", Source: "a.log", Status: domain.RunSucceeded, StartedAt: started, FinishedAt: started.Add(time.Second)},
		{ID: "run-2", Source: "b.log", Status: domain.RunFailed, Error: "disk full", StartedAt: started, FinishedAt: started},
	}
}

func TestView_Load(t *testing.T) {
	svc := &mockRunService{runs: testRuns()}
	v := NewView(nil, svc)

	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.Contains(t, v.View(), "Loading...")

	msg := cmd()
	loaded, ok := msg.(messages.RunsLoaded)
	require.True(t, ok)
	assert.Equal(t, historyLimit, svc.limit)

	v, _ = v.Update(loaded)
	assert.Equal(t, 2, v.Count())
	assert.Contains(t, v.View(), "a.log")
}

func TestView_LoadError(t *testing.T) {
	v := NewView(nil, &mockRunService{err: errors.New("database locked")})

	v, _ = v.Update(v.Init()())

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "Failed to load runs: database locked")
}

func TestView_NilService(t *testing.T) {
	v := NewView(nil, nil)

	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No runs yet")
}

func TestView_SelectRun(t *testing.T) {
	v := NewView(nil, &mockRunService{})
	v, _ = v.Update(messages.RunsLoaded{Runs: testRuns()})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	selected, ok := cmd().(messages.RunSelected)
	require.True(t, ok)
	assert.Equal(t, "run-2", selected.Run.ID)
}

func TestView_SelectRun_Empty(t *testing.T) {
	v := NewView(nil, &mockRunService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestDetailView(t *testing.T) {
	d := NewDetailView(nil)
	assert.Contains(t, d.View(), "No run selected")

	run := testRuns()[1]
	run.Pools = []domain.PoolHealth{{Environment: "TEPROD", Pool: "/Common/pool_api", Requests: 2}}
	d.SetRun(run)

	view := d.View()
	assert.Equal(t, "run-2", d.Run().ID)
	assert.Contains(t, view, "Run run-2")
	assert.Contains(t, view, "b.log")
	assert.Contains(t, view, "failed")
	assert.Contains(t, view, "disk full")
	assert.Contains(t, view, "/Common/pool_api")
	assert.Contains(t, view, "2025-08-08T03:33:00Z")
}
