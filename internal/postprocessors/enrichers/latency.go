package enrichers

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

var _ driven.Enricher = (*Latency)(nil)

// Latency buckets response_time_ms against a threshold table.
type Latency struct {
	bands           []domain.LatencyBand
	slowThresholdMs int64
}

// LatencyOption configures the latency enricher.
type LatencyOption func(*Latency)

// WithBands replaces the threshold table. Bands must be ascending.
func WithBands(bands []domain.LatencyBand) LatencyOption {
	return func(e *Latency) {
		if len(bands) > 0 {
			e.bands = bands
		}
	}
}

// WithSlowThreshold sets the is_slow cut-off in milliseconds.
func WithSlowThreshold(ms int64) LatencyOption {
	return func(e *Latency) {
		if ms > 0 {
			e.slowThresholdMs = ms
		}
	}
}

// NewLatency creates a latency enricher with the standard profile.
func NewLatency(opts ...LatencyOption) *Latency {
	bands, _ := domain.LatencyProfile(domain.LatencyProfileStandard)
	e := &Latency{
		bands:           bands,
		slowThresholdMs: domain.DefaultSlowThresholdMs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the enricher name.
func (e *Latency) Name() string {
	return "latency"
}

// Enrich sets response_time_category and is_slow.
func (e *Latency) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	if rec.ResponseTimeMs == nil {
		rec.ResponseTimeCategory = domain.LatencyUnknown
		rec.IsSlow = false
		return
	}
	ms := *rec.ResponseTimeMs
	rec.ResponseTimeCategory = e.Category(ms)
	rec.IsSlow = ms > e.slowThresholdMs
}

// Category returns the first band whose upper bound exceeds ms.
func (e *Latency) Category(ms int64) string {
	for _, band := range e.bands {
		if ms < band.UpperMs {
			return band.Category
		}
	}
	return domain.LatencyVerySlow
}
