// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewProgress shows the live batch.
	ViewProgress ViewType = iota
	// ViewRuns lists batch history.
	ViewRuns
	// ViewRunDetail shows one finished run.
	ViewRunDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewProgress:
		return "progress"
	case ViewRuns:
		return "runs"
	case ViewRunDetail:
		return "run_detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// StatusPolled carries a snapshot of the running batch.
type StatusPolled struct {
	Status *driving.IngestStatus
	Err    error
}

// BatchFinished signals the batch started by the TUI completed.
type BatchFinished struct {
	Run *domain.BatchRun
	Err error
}

// RunsLoaded carries batch history.
type RunsLoaded struct {
	Runs []domain.BatchRun
	Err  error
}

// RunSelected signals a run was chosen in the history list.
type RunSelected struct {
	Run domain.BatchRun
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
