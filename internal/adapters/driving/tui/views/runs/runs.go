// Package runs provides the batch history views for the TUI.
package runs

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/components/stats"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// historyLimit is the number of runs loaded.
const historyLimit = 50

// View lists recent batch runs.
type View struct {
	styles  *styles.Styles
	service driving.RunService
	list    *list.RunList
	err     error
	loading bool
}

// NewView creates a run history view.
func NewView(s *styles.Styles, service driving.RunService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		list:    list.NewRunList(s),
	}
}

// Init loads the history.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load returns a command that fetches runs.
func (v *View) Load() tea.Cmd {
	if v.service == nil {
		return nil
	}
	v.loading = true
	service := v.service
	return func() tea.Msg {
		runs, err := service.List(context.Background(), historyLimit)
		return messages.RunsLoaded{Runs: runs, Err: err}
	}
}

// Update handles history messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RunsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetRuns(msg.Runs)
		}
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			run := v.list.SelectedRun()
			if run == nil {
				return v, nil
			}
			selected := *run
			return v, func() tea.Msg { return messages.RunSelected{Run: selected} }
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the history.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Batch history"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Failed to load runs: " + v.err.Error()))
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n")
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.list.SetDimensions(width, height-4)
}

// Count returns the number of loaded runs.
func (v *View) Count() int {
	return v.list.Count()
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// DetailView shows one run.
type DetailView struct {
	styles *styles.Styles
	run    *domain.BatchRun
}

// NewDetailView creates a run detail view.
func NewDetailView(s *styles.Styles) *DetailView {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &DetailView{styles: s}
}

// SetRun sets the displayed run.
func (d *DetailView) SetRun(run domain.BatchRun) {
	d.run = &run
}

// Run returns the displayed run.
func (d *DetailView) Run() *domain.BatchRun {
	return d.run
}

// View renders the run.
func (d *DetailView) View() string {
	if d.run == nil {
		return d.styles.Muted.Render("No run selected")
	}
	r := d.run
	s := d.styles

	rows := []string{
		s.Title.Render("Run " + r.ID),
		"",
		s.Row("Source", r.Source),
		s.Row("Status", string(r.Status)),
		s.Row("Started", r.StartedAt.Format(time.RFC3339)),
		s.Row("Duration", r.Duration().Round(time.Millisecond).String()),
		s.Row("Alerts", fmt.Sprintf("%d", r.Alerts)),
	}
	if r.Error != "" {
		rows = append(rows, s.Row("Error", s.Error.Render(r.Error)))
	}
	rows = append(rows,
		"",
		stats.Render(s, r.Stats),
		"",
		stats.RenderPools(s, r.Pools, 0),
		"",
		s.Help.Render("[esc] back to runs"),
	)
	return strings.Join(rows, "\n")
}
