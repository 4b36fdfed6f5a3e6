package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/views/progress"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/views/runs"
	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// pollInterval is how often the live batch counters are refreshed.
const pollInterval = 200 * time.Millisecond

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// source is the location ingested on start.
	source string

	styles *styles.Styles
	keymap *keymap.KeyMap

	progressView *progress.View
	runsView     *runs.View
	detailView   *runs.DetailView
	statusBar    *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI that ingests source and shows its progress.
func NewApp(ports *Ports, source string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if source == "" {
		return nil, fmt.Errorf("creating app: %w", ErrMissingSource)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		source:       source,
		styles:       s,
		keymap:       km,
		progressView: progress.NewView(s, source),
		runsView:     runs.NewView(s, ports.Runs),
		detailView:   runs.NewDetailView(s),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewProgress,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It starts the batch and the status polling loop.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateRunning)
	return tea.Batch(
		tea.SetWindowTitle("f5lake - "+a.source),
		a.progressView.Init(),
		a.ingest(),
		a.poll(),
	)
}

// ingest runs the batch in the background.
func (a *App) ingest() tea.Cmd {
	ctx, svc, source := a.ctx, a.ports.Ingest, a.source
	return func() tea.Msg {
		run, err := svc.Ingest(ctx, source)
		return messages.BatchFinished{Run: run, Err: err}
	}
}

// poll schedules the next status snapshot.
func (a *App) poll() tea.Cmd {
	ctx, svc := a.ctx, a.ports.Ingest
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		st, err := svc.Status(ctx)
		return messages.StatusPolled{Status: st, Err: err}
	})
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.StatusPolled:
		if msg.Err != nil {
			a.err = msg.Err
		}
		a.progressView, _ = a.progressView.Update(msg)
		if !a.progressView.Running() {
			return a, nil
		}
		a.statusBar.SetRecords(a.progressView.Stats().Total)
		return a, a.poll()

	case messages.BatchFinished:
		a.progressView, _ = a.progressView.Update(msg)
		a.statusBar.SetRecords(a.progressView.Stats().Total)
		if msg.Err != nil || msg.Run == nil {
			a.err = a.progressView.Err()
			a.statusBar.SetState(status.StateFailed)
			a.statusBar.SetMessage(a.err.Error())
		} else {
			a.statusBar.SetState(status.StateDone)
		}
		return a, a.runsView.Load()

	case messages.RunsLoaded:
		a.runsView, cmd = a.runsView.Update(msg)
		return a, cmd

	case messages.RunSelected:
		a.detailView.SetRun(msg.Run)
		a.currentView = messages.ViewRunDetail
		return a, nil

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	a.progressView, cmd = a.progressView.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(k, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			return a, a.switchTo(messages.ViewProgress)
		}
		return a, a.switchTo(messages.ViewHelp)
	case keymap.Matches(k, a.keymap.Back):
		switch a.currentView {
		case messages.ViewRunDetail:
			return a, a.switchTo(messages.ViewRuns)
		case messages.ViewRuns, messages.ViewHelp:
			return a, a.switchTo(messages.ViewProgress)
		case messages.ViewProgress:
		}
		return a, nil
	case keymap.Matches(k, a.keymap.Runs):
		return a, a.switchTo(messages.ViewRuns)
	case keymap.Matches(k, a.keymap.Progress):
		return a, a.switchTo(messages.ViewProgress)
	case keymap.Matches(k, a.keymap.Refresh):
		if a.currentView == messages.ViewRuns {
			return a, a.runsView.Load()
		}
		return a, nil
	}

	if a.currentView == messages.ViewRuns {
		var cmd tea.Cmd
		a.runsView, cmd = a.runsView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// switchTo changes the active view and returns its start command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewRuns:
		a.statusBar.SetState(status.StateHistory)
		return a.runsView.Load()
	case messages.ViewProgress:
		a.statusBar.SetState(a.batchState())
	case messages.ViewRunDetail, messages.ViewHelp:
	}
	return nil
}

func (a *App) batchState() status.State {
	switch {
	case a.progressView.Running():
		return status.StateRunning
	case a.progressView.Err() != nil:
		return status.StateFailed
	default:
		return status.StateDone
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewRuns:
		body = a.runsView.View()
	case messages.ViewRunDetail:
		body = a.detailView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.progressView.View()
	}
	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Result returns the finished run and batch error, both nil while running.
func (a *App) Result() (*domain.BatchRun, error) {
	return a.progressView.Run(), a.progressView.Err()
}

// Source returns the ingested location.
func (a *App) Source() string {
	return a.source
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.progressView.SetDimensions(width, height-1)
	a.runsView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
