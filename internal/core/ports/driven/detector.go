package driven

import "github.com/custodia-labs/f5lake/internal/core/domain"

// FormatDetector classifies the wire format of a raw record.
// Implementations are pure and never fail.
type FormatDetector interface {
	Detect(raw string) domain.DetectedFormat
}

// FieldExtractor splits a flat-text line into the 22 raw fields.
type FieldExtractor interface {
	// Extract returns a complete FieldMap, or an error wrapping
	// domain.ErrExtractionMismatch. It never returns a partial map.
	Extract(line string) (domain.FieldMap, error)
}

// StructuredDecoder maps a structured document onto the 22 raw fields.
type StructuredDecoder interface {
	// Decode returns a complete FieldMap, or an error wrapping
	// domain.ErrFormatUnknown when mandatory keys are missing.
	Decode(raw string) (domain.FieldMap, error)
}
