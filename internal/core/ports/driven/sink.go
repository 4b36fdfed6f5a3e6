package driven

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// RecordSink receives enriched records.
// Writes come from a single goroutine; implementations need not be
// goroutine-safe unless they are shared between batches.
type RecordSink interface {
	// Name identifies the sink in logs and errors.
	Name() string

	// Write delivers a slice of records.
	Write(ctx context.Context, records []domain.EnrichedRecord) error

	// Close flushes and releases resources.
	Close() error
}

// RecordStore provides read access to stored records.
type RecordStore interface {
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.EnrichedRecord, error)

	// CountByStatus returns record counts per status category.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// RunStore persists batch runs.
type RunStore interface {
	// Save stores or updates a run.
	Save(ctx context.Context, run domain.BatchRun) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.BatchRun, error)

	// List returns up to limit runs, newest first. A limit of 0 means all.
	List(ctx context.Context, limit int) ([]domain.BatchRun, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error
}

// AlertNotifier delivers alerts to an external system.
type AlertNotifier interface {
	Notify(ctx context.Context, alerts []domain.Alert) error
	Close() error
}

// StatsReporter exports batch statistics.
type StatsReporter interface {
	// ReportRun records a finished batch run.
	ReportRun(run domain.BatchRun)
}
