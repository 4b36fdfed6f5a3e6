package services

import (
	"sync/atomic"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// Observer receives pipeline outcomes.
type Observer interface {
	Observe(outcome domain.Outcome)
}

// Tally is a per-worker counter set. It is not safe for concurrent use;
// each worker owns one and merges it into a StatsTracker.
type Tally struct {
	domain.BatchStats
}

// Observe records one outcome.
func (t *Tally) Observe(outcome domain.Outcome) {
	switch outcome {
	case domain.OutcomeStructured:
		t.Total++
		t.StructuredCount++
	case domain.OutcomeFlatText:
		t.Total++
		t.FlatTextCount++
	case domain.OutcomeFormatUnknown:
		t.Total++
		t.FormatErrors++
	case domain.OutcomeExtractionFailed:
		t.ParseErrors++
	case domain.OutcomeSucceeded:
		t.Succeeded++
	}
}

// Reset zeroes the counters.
func (t *Tally) Reset() {
	t.BatchStats = domain.BatchStats{}
}

// StatsTracker accumulates batch statistics across workers.
// All methods are safe for concurrent use. One tracker is scoped to one
// orchestrator run.
type StatsTracker struct {
	total        atomic.Int64
	structured   atomic.Int64
	flatText     atomic.Int64
	succeeded    atomic.Int64
	parseErrors  atomic.Int64
	formatErrors atomic.Int64
}

// NewStatsTracker creates an empty tracker.
func NewStatsTracker() *StatsTracker {
	return &StatsTracker{}
}

// Observe records one outcome directly.
func (s *StatsTracker) Observe(outcome domain.Outcome) {
	var t Tally
	t.Observe(outcome)
	s.Merge(t)
}

// Merge adds a worker's partial counts.
func (s *StatsTracker) Merge(t Tally) {
	s.total.Add(t.Total)
	s.structured.Add(t.StructuredCount)
	s.flatText.Add(t.FlatTextCount)
	s.succeeded.Add(t.Succeeded)
	s.parseErrors.Add(t.ParseErrors)
	s.formatErrors.Add(t.FormatErrors)
}

// Summary returns a snapshot of the counters.
// While workers are still merging, counters may be momentarily
// unbalanced; after Run returns the snapshot is exact.
func (s *StatsTracker) Summary() domain.BatchStats {
	return domain.BatchStats{
		Total:           s.total.Load(),
		StructuredCount: s.structured.Load(),
		FlatTextCount:   s.flatText.Load(),
		Succeeded:       s.succeeded.Load(),
		ParseErrors:     s.parseErrors.Load(),
		FormatErrors:    s.formatErrors.Load(),
	}
}

// Reset zeroes the counters for a new batch.
func (s *StatsTracker) Reset() {
	s.total.Store(0)
	s.structured.Store(0)
	s.flatText.Store(0)
	s.succeeded.Store(0)
	s.parseErrors.Store(0)
	s.formatErrors.Store(0)
}
