package enrichers

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

var _ driven.Enricher = (*Status)(nil)

// Status classifies the HTTP response code.
type Status struct{}

// NewStatus creates a status enricher.
func NewStatus() *Status {
	return &Status{}
}

// Name returns the enricher name.
func (e *Status) Name() string {
	return "status"
}

// Enrich sets status_category and is_error.
func (e *Status) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	if rec.ResponseCode == nil {
		rec.StatusCategory = domain.StatusUnknown
		rec.IsError = false
		return
	}
	code := *rec.ResponseCode
	rec.StatusCategory = StatusCategory(code)
	rec.IsError = code >= 400
}

// StatusCategory buckets a response code. Ranges are closed-open at
// 200, 300, 400 and 500; anything at or above 500 is a server error.
func StatusCategory(code int64) string {
	switch {
	case code >= 200 && code < 300:
		return domain.StatusSuccess
	case code >= 300 && code < 400:
		return domain.StatusRedirect
	case code >= 400 && code < 500:
		return domain.StatusClientError
	case code >= 500:
		return domain.StatusServerError
	default:
		return domain.StatusUnknown
	}
}
