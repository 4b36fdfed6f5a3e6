// Package postprocessors builds the enrichment chain applied to normalised
// records.
package postprocessors

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.EnrichmentPipeline = (*Pipeline)(nil)

// Pipeline chains multiple Enrichers and runs them in order.
// It implements the EnrichmentPipeline interface.
type Pipeline struct {
	enrichers []driven.Enricher
}

// NewPipeline creates a new enrichment pipeline with the given enrichers.
// Enrichers are executed in the order provided.
func NewPipeline(enrichers ...driven.Enricher) *Pipeline {
	return &Pipeline{
		enrichers: enrichers,
	}
}

// Enrich wraps rec with fallback values and runs every enricher on it.
// The returned record carries all derived keys whatever the input.
func (p *Pipeline) Enrich(ctx context.Context, rec domain.NormalizedRecord) domain.EnrichedRecord {
	out := domain.NewEnrichedRecord(rec)
	for _, e := range p.enrichers {
		e.Enrich(ctx, &out)
	}
	return out
}

// Add appends an enricher to the pipeline.
func (p *Pipeline) Add(e driven.Enricher) {
	p.enrichers = append(p.enrichers, e)
}

// Len returns the number of enrichers in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.enrichers)
}

// Names returns the enricher names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.enrichers))
	for i, e := range p.enrichers {
		names[i] = e.Name()
	}
	return names
}
