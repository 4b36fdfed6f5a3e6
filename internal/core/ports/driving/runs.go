package driving

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// RunService exposes batch history and stored records.
type RunService interface {
	// List returns recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.BatchRun, error)

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.BatchRun, error)

	// Delete removes a run from history.
	Delete(ctx context.Context, id string) error

	// RecentRecords returns stored records, newest first.
	// Returns an empty slice when no record store is configured.
	RecentRecords(ctx context.Context, limit int) ([]domain.EnrichedRecord, error)

	// StatusBreakdown returns stored record counts per status category.
	StatusBreakdown(ctx context.Context) (map[string]int64, error)
}
