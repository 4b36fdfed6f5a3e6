package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// Ensure ParseService implements the interface.
var _ driving.ParseService = (*ParseService)(nil)

// ParseService runs single records through the pipeline for inspection.
// Nothing is persisted and no statistics are kept.
type ParseService struct {
	pipeline *RecordPipeline
}

// NewParseService creates a new parse service.
func NewParseService(pipeline *RecordPipeline) *ParseService {
	return &ParseService{pipeline: pipeline}
}

// discard ignores outcomes.
type discard struct{}

func (discard) Observe(domain.Outcome) {}

// Parse processes one raw record. Rejections are reported in the result,
// not as errors; only a contract violation is returned as an error.
func (s *ParseService) Parse(ctx context.Context, raw string) (*driving.ParseResult, error) {
	rec, state, err := s.pipeline.Process(ctx, domain.RawRecord{Source: "input", Line: 1, Payload: raw}, discard{})
	result := &driving.ParseResult{
		Format: s.pipeline.Detect(raw),
		State:  state,
	}

	switch {
	case err != nil && errors.Is(err, domain.ErrContractViolation):
		return nil, err
	case err != nil:
		result.Reason = err.Error()
	default:
		result.Record = &rec
	}
	return result, nil
}

// Detect classifies a raw record.
func (s *ParseService) Detect(raw string) domain.DetectedFormat {
	return s.pipeline.Detect(raw)
}
