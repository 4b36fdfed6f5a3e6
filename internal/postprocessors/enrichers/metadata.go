package enrichers

import (
	"context"
	"time"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

var _ driven.Enricher = (*Metadata)(nil)

// Metadata stamps processing time and engine version.
type Metadata struct {
	version string
	now     func() time.Time
}

// NewMetadata creates a metadata enricher.
func NewMetadata(version string, now func() time.Time) *Metadata {
	if now == nil {
		now = time.Now
	}
	return &Metadata{version: version, now: now}
}

// Name returns the enricher name.
func (e *Metadata) Name() string {
	return "metadata"
}

// Enrich sets processing_timestamp, processing_date and engine_version.
func (e *Metadata) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	now := e.now().UTC()
	rec.ProcessingTimestamp = now.Format(time.RFC3339Nano)
	rec.ProcessingDate = now.Format(time.DateOnly)
	rec.EngineVersion = e.version
}
