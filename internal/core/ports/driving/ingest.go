package driving

import (
	"context"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// IngestService runs the record pipeline over sources.
type IngestService interface {
	// Ingest processes every record of a source as one batch.
	// The returned run is persisted whatever the outcome.
	Ingest(ctx context.Context, source string) (*domain.BatchRun, error)

	// Status returns progress of the batch currently running, if any.
	Status(ctx context.Context) (*IngestStatus, error)
}

// IngestStatus represents the current state of a batch.
type IngestStatus struct {
	// RunID identifies the batch.
	RunID string

	// Source is the location being read.
	Source string

	// Running indicates if a batch is in progress.
	Running bool

	// Stats are the live counters.
	Stats domain.BatchStats
}

// ParseService runs single records through the pipeline without persisting.
type ParseService interface {
	// Parse processes one raw record.
	Parse(ctx context.Context, raw string) (*ParseResult, error)

	// Detect classifies a raw record.
	Detect(raw string) domain.DetectedFormat
}

// ParseResult is the outcome of a single record.
type ParseResult struct {
	// Format is the detected wire format.
	Format domain.DetectedFormat

	// State is the terminal pipeline state.
	State domain.State

	// Record is set when State is StateDone.
	Record *domain.EnrichedRecord

	// Reason explains a rejection.
	Reason string
}

// WatchService ingests files as they appear in a directory.
type WatchService interface {
	// Watch runs one batch per settled file until ctx is done.
	// done is called after each batch.
	Watch(ctx context.Context, dir string, done func(*domain.BatchRun, error)) error
}
