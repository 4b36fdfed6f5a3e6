package services

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// RunService exposes batch history and stored records.
type RunService struct {
	runStore    driven.RunStore
	recordStore driven.RecordStore
}

// NewRunService creates a new run service. recordStore may be nil when
// records are not kept locally.
func NewRunService(runStore driven.RunStore, recordStore driven.RecordStore) *RunService {
	return &RunService{
		runStore:    runStore,
		recordStore: recordStore,
	}
}

// List returns recent runs, newest first.
func (s *RunService) List(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	if s.runStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.runStore.List(ctx, limit)
}

// Get retrieves a run by ID.
func (s *RunService) Get(ctx context.Context, id string) (*domain.BatchRun, error) {
	if s.runStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.runStore.Get(ctx, id)
}

// Delete removes a run from history.
func (s *RunService) Delete(ctx context.Context, id string) error {
	if s.runStore == nil {
		return domain.ErrNotImplemented
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	if _, err := s.runStore.Get(ctx, id); err != nil {
		return err
	}
	return s.runStore.Delete(ctx, id)
}

// RecentRecords returns stored records, newest first.
func (s *RunService) RecentRecords(ctx context.Context, limit int) ([]domain.EnrichedRecord, error) {
	if s.recordStore == nil {
		return []domain.EnrichedRecord{}, nil
	}
	return s.recordStore.Recent(ctx, limit)
}

// StatusBreakdown returns stored record counts per status category.
func (s *RunService) StatusBreakdown(ctx context.Context) (map[string]int64, error) {
	if s.recordStore == nil {
		return map[string]int64{}, nil
	}
	return s.recordStore.CountByStatus(ctx)
}
