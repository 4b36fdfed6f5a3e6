package mcp

import (
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Parse runs single lines through the pipeline.
	Parse driving.ParseService

	// Runs exposes batch history.
	Runs driving.RunService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Parse == nil {
		return ErrMissingParseService
	}
	// Runs is optional; resources answer with empty data without it
	return nil
}
