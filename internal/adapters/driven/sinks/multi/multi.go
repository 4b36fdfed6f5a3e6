// Package multi fans records out to several sinks.
package multi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.RecordSink = (*Sink)(nil)

// Sink delivers every batch to each wrapped sink in order. A failing sink
// does not prevent delivery to the others; the errors are joined.
type Sink struct {
	sinks []driven.RecordSink
}

// New creates a fan-out over sinks.
func New(sinks ...driven.RecordSink) *Sink {
	return &Sink{sinks: sinks}
}

// Name joins the wrapped sink names with "+".
func (m *Sink) Name() string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Len returns the number of wrapped sinks.
func (m *Sink) Len() int {
	return len(m.sinks)
}

// Write delivers records to every sink.
func (m *Sink) Write(ctx context.Context, records []domain.EnrichedRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, records); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, collecting errors.
func (m *Sink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
