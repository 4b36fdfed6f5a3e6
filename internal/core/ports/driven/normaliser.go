package driven

import "github.com/custodia-labs/f5lake/internal/core/domain"

// Normaliser resolves placeholder tokens to null and parses numeric fields.
type Normaliser interface {
	// Normalise converts a complete FieldMap.
	// Per-field conversion failures yield nulls, never errors.
	// An incomplete FieldMap returns an error wrapping domain.ErrContractViolation.
	Normalise(fields domain.FieldMap) (domain.NormalizedRecord, error)
}
