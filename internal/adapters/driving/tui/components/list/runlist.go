// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// RunList displays batch runs in a navigable list.
type RunList struct {
	runs     []domain.BatchRun
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRunList creates a new run list component.
func NewRunList(s *styles.Styles) *RunList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RunList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the run list.
func (r *RunList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RunList) Update(msg tea.Msg) (*RunList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the run list.
func (r *RunList) View() string {
	if len(r.runs) == 0 {
		return r.styles.Muted.Render("No runs yet")
	}

	lines := make([]string, 0, len(r.runs)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Runs (%d)", len(r.runs))), "")

	// One line per run plus header and footer
	visible := r.height - 4
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.runs) {
		end = len(r.runs)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRun(i, &r.runs[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *RunList) renderRun(index int, run *domain.BatchRun) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	source := run.Source
	maxSource := r.width - 60
	if maxSource < 12 {
		maxSource = 12
	}
	if len(source) > maxSource {
		source = "..." + source[len(source)-maxSource+3:]
	}

	line := fmt.Sprintf("%s%-16s %-9s %-*s %8d %6.1f%%",
		indicator,
		run.StartedAt.Format("2006-01-02 15:04"),
		run.Status,
		maxSource, source,
		run.Stats.Total,
		run.Stats.SuccessRate(),
	)
	if index == r.selected {
		return r.styles.Selected.Render(line)
	}
	if run.Status == domain.RunFailed {
		return r.styles.Error.Render(line)
	}
	return r.styles.Normal.Render(line)
}

// SetRuns replaces the list contents.
func (r *RunList) SetRuns(runs []domain.BatchRun) {
	r.runs = runs
	if r.selected >= len(runs) {
		r.selected = 0
	}
}

// Runs returns the current runs.
func (r *RunList) Runs() []domain.BatchRun {
	return r.runs
}

// Selected returns the index of the selected run.
func (r *RunList) Selected() int {
	return r.selected
}

// SelectedRun returns the currently selected run, or nil if none.
func (r *RunList) SelectedRun() *domain.BatchRun {
	if r.selected < 0 || r.selected >= len(r.runs) {
		return nil
	}
	return &r.runs[r.selected]
}

// MoveUp moves selection up.
func (r *RunList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RunList) MoveDown() {
	if r.selected < len(r.runs)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RunList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of runs.
func (r *RunList) Count() int {
	return len(r.runs)
}
