package mcp

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// mockParseService is a mock implementation of driving.ParseService.
type mockParseService struct {
	result *driving.ParseResult
	format domain.DetectedFormat
	err    error
	got    string
}

func (m *mockParseService) Parse(_ context.Context, raw string) (*driving.ParseResult, error) {
	m.got = raw
	return m.result, m.err
}

func (m *mockParseService) Detect(_ string) domain.DetectedFormat {
	return m.format
}

// mockRunService is a mock implementation of driving.RunService.
type mockRunService struct {
	runs      []domain.BatchRun
	run       *domain.BatchRun
	breakdown map[string]int64
	err       error
	limit     int
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.BatchRun, error) {
	m.limit = limit
	return m.runs, m.err
}

func (m *mockRunService) Get(_ context.Context, _ string) (*domain.BatchRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.run == nil {
		return nil, domain.ErrNotFound
	}
	return m.run, nil
}

func (m *mockRunService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockRunService) RecentRecords(_ context.Context, _ int) ([]domain.EnrichedRecord, error) {
	return nil, m.err
}

func (m *mockRunService) StatusBreakdown(_ context.Context) (map[string]int64, error) {
	return m.breakdown, m.err
}
