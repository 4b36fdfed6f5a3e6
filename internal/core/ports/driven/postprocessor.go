package driven

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// Enricher derives one group of analytic dimensions.
// Enrichers are chained in a pipeline (timestamps, status, latency, ...).
type Enricher interface {
	// Name returns the enricher name for logging and configuration.
	Name() string

	// Enrich sets its derived fields on rec. It never fails: every
	// derived field has a fallback value.
	Enrich(ctx context.Context, rec *domain.EnrichedRecord)
}

// EnrichmentPipeline chains multiple Enrichers.
type EnrichmentPipeline interface {
	// Enrich runs the record through all enrichers in order.
	Enrich(ctx context.Context, rec domain.NormalizedRecord) domain.EnrichedRecord
}
