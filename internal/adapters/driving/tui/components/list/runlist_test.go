package list

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

func sampleRuns() []domain.BatchRun {
	started := time.Date(2025, 8, 8, 3, 33, 0, 0, time.UTC)
	return []domain.BatchRun{
		{
			ID:        "run-1",
			Source:    "/var/log/f5/access.log",
			Status:    domain.RunSucceeded,
			Stats:     domain.BatchStats{Total: 100, Succeeded: 75},
			StartedAt: started,
		},
		{
			ID:        "run-2",
			Source:    "stdin",
			Status:    domain.RunFailed,
			StartedAt: started.Add(-time.Hour),
		},
	}
}

func TestNewRunList(t *testing.T) {
	l := NewRunList(nil)

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedRun())
	assert.Nil(t, l.Init())
}

func TestRunList_View_Empty(t *testing.T) {
	assert.Contains(t, NewRunList(nil).View(), "No runs yet")
}

func TestRunList_View(t *testing.T) {
	l := NewRunList(nil)
	l.SetDimensions(120, 20)
	l.SetRuns(sampleRuns())

	view := l.View()

	assert.Contains(t, view, "Runs (2)")
	assert.Contains(t, view, "2025-08-08 03:33")
	assert.Contains(t, view, "succeeded")
	assert.Contains(t, view, "/var/log/f5/access.log")
	assert.Contains(t, view, "75.0%")
	assert.Contains(t, view, "> ")
}

func TestRunList_Navigation(t *testing.T) {
	l := NewRunList(nil)
	l.SetRuns(sampleRuns())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, "run-2", l.SelectedRun().ID)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, l.Selected())
}

func TestRunList_SetRuns_ResetsOutOfRangeSelection(t *testing.T) {
	l := NewRunList(nil)
	l.SetRuns(sampleRuns())
	l.MoveDown()

	l.SetRuns(sampleRuns()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Len(t, l.Runs(), 1)
}

func TestRunList_TruncatesLongSources(t *testing.T) {
	runs := sampleRuns()
	runs[0].Source = "/very/long/path/that/does/not/fit/in/a/narrow/terminal/access.log"

	l := NewRunList(nil)
	l.SetDimensions(80, 20)
	l.SetRuns(runs)

	view := l.View()
	assert.Contains(t, view, "...")
	assert.Contains(t, view, "access.log")
}
