// Package detector classifies raw F5 log records by wire format.
package detector

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Detector implements the interface.
var _ driven.FormatDetector = (*Detector)(nil)

// syslogPrefix matches "Mon D HH:MM:SS" and "Mon DD HH:MM:SS".
var syslogPrefix = regexp.MustCompile(`^[A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}`)

// Detector classifies records as structured, flat text or unknown.
// It is stateless and safe for concurrent use.
type Detector struct{}

// New creates a new format detector.
func New() *Detector {
	return &Detector{}
}

// Detect returns the wire format of raw.
//
// A structured document must be a JSON object carrying every mandatory key
// (canonical or legacy alias); a well-formed object without them is unknown.
func (d *Detector) Detect(raw string) domain.DetectedFormat {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.FormatUnknown
	}

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		if isStructured(trimmed) {
			return domain.FormatStructured
		}
		return domain.FormatUnknown
	}

	if syslogPrefix.MatchString(trimmed) {
		return domain.FormatFlatText
	}

	return domain.FormatUnknown
}

// isStructured reports whether doc is a JSON object with the mandatory keys.
func isStructured(doc string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &fields); err != nil {
		return false
	}
	return HasRequiredFields(fields)
}

// HasRequiredFields reports whether the decoded document keys cover
// domain.RequiredStructuredFields, honouring legacy aliases.
func HasRequiredFields[V any](fields map[string]V) bool {
	present := make(map[string]bool, len(domain.RequiredStructuredFields))
	for key := range fields {
		if canonical, ok := domain.CanonicalField(key); ok {
			present[canonical] = true
		}
	}
	for _, name := range domain.RequiredStructuredFields {
		if !present[name] {
			return false
		}
	}
	return true
}
