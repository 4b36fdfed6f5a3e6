package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure RecordStore implements the interfaces.
var (
	_ driven.RecordSink  = (*RecordStore)(nil)
	_ driven.RecordStore = (*RecordStore)(nil)
)

// RecordStore keeps enriched records in memory. It is both a sink and a
// queryable store.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.EnrichedRecord
	closed  bool
}

// NewRecordStore creates an empty record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Name returns the sink name.
func (s *RecordStore) Name() string {
	return "memory"
}

// Write appends records.
func (s *RecordStore) Write(_ context.Context, records []domain.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSinkClosed
	}
	s.records = append(s.records, records...)
	return nil
}

// Close marks the store closed for writes. Reads keep working.
func (s *RecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// All returns a copy of every stored record in write order.
func (s *RecordStore) All() []domain.EnrichedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.EnrichedRecord(nil), s.records...)
}

// Recent returns up to limit records, newest first.
func (s *RecordStore) Recent(_ context.Context, limit int) ([]domain.EnrichedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.EnrichedRecord, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// CountByStatus returns record counts per status category.
func (s *RecordStore) CountByStatus(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for i := range s.records {
		counts[s.records[i].StatusCategory]++
	}
	return counts, nil
}
