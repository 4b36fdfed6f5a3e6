package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

func TestNewView(t *testing.T) {
	v := NewView(nil, "access.log")

	require.NotNil(t, v)
	assert.Equal(t, "access.log", v.Source())
	assert.True(t, v.Running())
	assert.NotNil(t, v.Init())
}

func TestView_StatusPolled(t *testing.T) {
	v := NewView(nil, "access.log")

	v, cmd := v.Update(messages.StatusPolled{Status: &driving.IngestStatus{
		RunID:   "run-1",
		Running: true,
		Stats:   domain.BatchStats{Total: 10, FlatTextCount: 10, Succeeded: 9, ParseErrors: 1},
	}})

	assert.Nil(t, cmd)
	assert.Equal(t, int64(10), v.Stats().Total)
	assert.Contains(t, v.View(), "run run-1")
	assert.Contains(t, v.View(), "90.00%")
	assert.Contains(t, v.View(), "Elapsed")
}

func TestView_StatusPolled_IgnoresIdleAndErrors(t *testing.T) {
	v := NewView(nil, "access.log")

	v, _ = v.Update(messages.StatusPolled{Status: &driving.IngestStatus{Running: false, Stats: domain.BatchStats{Total: 5}}})
	v, _ = v.Update(messages.StatusPolled{Err: errors.New("boom")})

	assert.Equal(t, int64(0), v.Stats().Total)
}

func TestView_BatchFinished(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		v := NewView(nil, "access.log")
		started := time.Date(2025, 8, 8, 3, 0, 0, 0, time.UTC)
		run := &domain.BatchRun{
			ID:         "run-1",
			Status:     domain.RunSucceeded,
			Stats:      domain.BatchStats{Total: 4, FlatTextCount: 4, Succeeded: 4},
			Alerts:     2,
			Pools:      []domain.PoolHealth{{Environment: "TEPROD", Pool: "/Common/pool_portal", Requests: 4, HealthScore: 100}},
			StartedAt:  started,
			FinishedAt: started.Add(1500 * time.Millisecond),
		}

		v, _ = v.Update(messages.BatchFinished{Run: run})

		assert.False(t, v.Running())
		assert.Equal(t, run, v.Run())
		view := v.View()
		assert.Contains(t, view, "succeeded")
		assert.Contains(t, view, "1.5s")
		assert.Contains(t, view, "/Common/pool_portal")
		assert.Contains(t, view, "100.00%")
	})

	t.Run("failure", func(t *testing.T) {
		v := NewView(nil, "access.log")

		v, _ = v.Update(messages.BatchFinished{Err: errors.New("read source: permission denied")})

		assert.False(t, v.Running())
		assert.Contains(t, v.View(), "Batch failed: read source: permission denied")
	})

	t.Run("no run and no error", func(t *testing.T) {
		v := NewView(nil, "access.log")

		v, _ = v.Update(messages.BatchFinished{})

		assert.Error(t, v.Err())
	})
}

func TestView_SpinnerStopsWhenDone(t *testing.T) {
	v := NewView(nil, "access.log")

	_, cmd := v.Update(spinner.TickMsg{})
	assert.NotNil(t, cmd)

	v, _ = v.Update(messages.BatchFinished{Run: &domain.BatchRun{Status: domain.RunSucceeded}})
	_, cmd = v.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
}
