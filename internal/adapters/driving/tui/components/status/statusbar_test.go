package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateIdle, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, int64(0), bar.Records())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateRunning)
	bar.SetMessage("disk full")
	bar.SetRecords(42)
	bar.SetWidth(120)

	assert.Equal(t, StateRunning, bar.State())
	assert.Equal(t, "disk full", bar.Message())
	assert.Equal(t, int64(42), bar.Records())
	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateFailed)
	bar.SetMessage("boom")
	bar.SetRecords(10)

	bar.Clear()

	assert.Equal(t, StateIdle, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, int64(0), bar.Records())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		records int64
		want    []string
	}{
		{name: "idle", state: StateIdle, want: []string{"Idle", "quit"}},
		{name: "running", state: StateRunning, records: 1234, want: []string{"Processing... 1234 records"}},
		{name: "done", state: StateDone, records: 7, want: []string{"Done: 7 records"}},
		{name: "failed", state: StateFailed, want: []string{"Failed"}},
		{name: "failed with message", state: StateFailed, message: "disk full", want: []string{"Failed: disk full"}},
		{name: "history", state: StateHistory, want: []string{"Run history", "enter: open"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetRecords(tt.records)

			view := bar.View()
			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestState_Constants(t *testing.T) {
	assert.Equal(t, State("idle"), StateIdle)
	assert.Equal(t, State("running"), StateRunning)
	assert.Equal(t, State("done"), StateDone)
	assert.Equal(t, State("failed"), StateFailed)
	assert.Equal(t, State("history"), StateHistory)
}
