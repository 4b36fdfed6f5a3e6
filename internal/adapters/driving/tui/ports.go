// Package tui provides an interactive terminal user interface for f5lake.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Ingest runs batches and reports live progress.
	Ingest driving.IngestService

	// Runs provides batch history.
	Runs driving.RunService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(ingest driving.IngestService, runs driving.RunService) *Ports {
	return &Ports{Ingest: ingest, Runs: runs}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Runs == nil {
		return ErrMissingRunService
	}
	return nil
}
