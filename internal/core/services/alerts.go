package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// AlertEvaluator flags accepted records that crossed an error or
// performance threshold.
type AlertEvaluator struct {
	slowThresholdMs    int64
	largeResponseBytes int64
}

// NewAlertEvaluator creates an evaluator. Non-positive thresholds use the
// defaults.
func NewAlertEvaluator(slowThresholdMs, largeResponseBytes int64) *AlertEvaluator {
	if slowThresholdMs <= 0 {
		slowThresholdMs = domain.DefaultSlowThresholdMs
	}
	if largeResponseBytes <= 0 {
		largeResponseBytes = domain.DefaultLargeResponseBytes
	}
	return &AlertEvaluator{
		slowThresholdMs:    slowThresholdMs,
		largeResponseBytes: largeResponseBytes,
	}
}

// Evaluate returns an alert for rec, or false when nothing triggered.
func (e *AlertEvaluator) Evaluate(runID string, raw domain.RawRecord, rec domain.EnrichedRecord) (domain.Alert, bool) {
	var reasons, categories []string

	if code := rec.ResponseCode; code != nil && *code >= 400 {
		category := domain.AlertServerError
		if *code < 500 {
			category = domain.AlertClientError
		}
		reasons = append(reasons, fmt.Sprintf("HTTP %d (%s)", *code, category))
		categories = append(categories, category)
	}

	if ms := rec.ResponseTimeMs; ms != nil && *ms > e.slowThresholdMs {
		reasons = append(reasons, fmt.Sprintf("Slow response: %dms (threshold: %dms)", *ms, e.slowThresholdMs))
		categories = append(categories, domain.AlertSlow)
	}

	if size := rec.ResponseSize; size != nil && *size > e.largeResponseBytes {
		reasons = append(reasons, fmt.Sprintf("Large response: %d bytes (threshold: %d bytes)", *size, e.largeResponseBytes))
		categories = append(categories, domain.AlertLarge)
	}

	if len(reasons) == 0 {
		return domain.Alert{}, false
	}

	return domain.Alert{
		RunID:    runID,
		Source:   raw.Source,
		Line:     raw.Line,
		Reasons:  reasons,
		Category: strings.Join(categories, ","),
		Record:   rec,
	}, true
}
