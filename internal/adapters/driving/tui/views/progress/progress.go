// Package progress provides the live batch view for the TUI.
package progress

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/components/stats"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// poolLimit caps the pools shown after a batch.
const poolLimit = 8

// View shows counters of the running batch and its outcome.
type View struct {
	styles  *styles.Styles
	spinner spinner.Model
	source  string
	stats   domain.BatchStats
	runID   string
	run     *domain.BatchRun
	err     error
	started time.Time
	now     func() time.Time
	width   int
	height  int
}

// NewView creates a progress view for source.
func NewView(s *styles.Styles, source string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &View{
		styles:  s,
		spinner: sp,
		source:  source,
		now:     time.Now,
		width:   80,
		height:  24,
	}
}

// Init starts the spinner.
func (v *View) Init() tea.Cmd {
	v.started = v.now()
	return v.spinner.Tick
}

// Update handles progress messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.Running() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.StatusPolled:
		if msg.Err == nil && msg.Status != nil && msg.Status.Running {
			v.stats = msg.Status.Stats
			v.runID = msg.Status.RunID
		}
		return v, nil

	case messages.BatchFinished:
		v.run = msg.Run
		v.err = msg.Err
		if msg.Run != nil {
			v.stats = msg.Run.Stats
			v.runID = msg.Run.ID
		}
		if v.err == nil && v.run == nil {
			v.err = errors.New("batch finished without a result")
		}
		return v, nil
	}
	return v, nil
}

// View renders the progress view.
func (v *View) View() string {
	var b strings.Builder

	header := v.styles.Title.Render("f5lake") + " " + v.styles.Normal.Render(v.source)
	if v.Running() {
		header = v.spinner.View() + " " + header
	}
	b.WriteString(header)
	b.WriteString("\n")
	if v.runID != "" {
		b.WriteString(v.styles.Muted.Render("run " + v.runID))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(stats.Render(v.styles, v.stats))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Batch failed: " + v.err.Error()))
		b.WriteString("\n")
	case v.run != nil:
		b.WriteString(v.styles.Row("Status", string(v.run.Status)))
		b.WriteString("\n")
		b.WriteString(v.styles.Row("Duration", v.run.Duration().Round(time.Millisecond).String()))
		b.WriteString("\n")
		b.WriteString(v.styles.Row("Alerts", fmt.Sprintf("%d", v.run.Alerts)))
		b.WriteString("\n\n")
		b.WriteString(stats.RenderPools(v.styles, v.run.Pools, poolLimit))
		b.WriteString("\n")
	default:
		b.WriteString(v.styles.Row("Elapsed", v.now().Sub(v.started).Round(time.Second).String()))
		b.WriteString("\n")
	}

	return b.String()
}

// Running reports whether the batch is still in progress.
func (v *View) Running() bool {
	return v.run == nil && v.err == nil
}

// Stats returns the latest counters.
func (v *View) Stats() domain.BatchStats {
	return v.stats
}

// Run returns the finished run, if any.
func (v *View) Run() *domain.BatchRun {
	return v.run
}

// Err returns the batch error, if any.
func (v *View) Err() error {
	return v.err
}

// Source returns the location being ingested.
func (v *View) Source() string {
	return v.source
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
