package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown sink, enricher or encoding.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBatchInProgress indicates a batch is already running for a source.
	ErrBatchInProgress = errors.New("batch in progress")

	// ErrNotImplemented indicates a feature has no backing adapter configured.
	ErrNotImplemented = errors.New("not implemented")

	// Record Errors.

	// ErrFormatUnknown indicates a record matched neither the structured
	// nor the flat-text format. The record is rejected.
	ErrFormatUnknown = errors.New("format unknown")

	// ErrExtractionMismatch indicates a flat-text line failed the
	// positional grammar. The record is rejected.
	ErrExtractionMismatch = errors.New("extraction mismatch")

	// ErrContractViolation indicates a FieldMap reached the normaliser
	// without all canonical keys. This is a programming defect and
	// aborts the batch.
	ErrContractViolation = errors.New("field map contract violation")

	// Sink Errors.

	// ErrSinkClosed indicates a write to a sink that has been closed.
	ErrSinkClosed = errors.New("sink closed")
)

// ExtractionError describes why a flat-text line was rejected.
// It unwraps to ErrExtractionMismatch.
type ExtractionError struct {
	// Reason names the grammar step that failed.
	Reason string

	// Sample is a truncated copy of the offending line.
	Sample string
}

// maxSampleLen bounds the line excerpt kept on extraction errors.
const maxSampleLen = 100

// NewExtractionError creates an ExtractionError with a truncated sample.
func NewExtractionError(reason, line string) *ExtractionError {
	if len(line) > maxSampleLen {
		line = line[:maxSampleLen] + "..."
	}
	return &ExtractionError{Reason: reason, Sample: line}
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s: %q", ErrExtractionMismatch, e.Reason, e.Sample)
}

// Unwrap allows errors.Is(err, ErrExtractionMismatch).
func (e *ExtractionError) Unwrap() error {
	return ErrExtractionMismatch
}
