package domain

// Outcome is a single pipeline event reported to the statistics tracker.
type Outcome int

const (
	// OutcomeStructured marks a record detected as a structured document.
	OutcomeStructured Outcome = iota

	// OutcomeFlatText marks a record detected as a flat-text line.
	OutcomeFlatText

	// OutcomeFormatUnknown marks a record rejected at detection.
	OutcomeFormatUnknown

	// OutcomeExtractionFailed marks a flat-text record rejected by the extractor.
	OutcomeExtractionFailed

	// OutcomeSucceeded marks a record that reached Done.
	OutcomeSucceeded
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeStructured:
		return "structured"
	case OutcomeFlatText:
		return "flat_text"
	case OutcomeFormatUnknown:
		return "format_error"
	case OutcomeExtractionFailed:
		return "parse_error"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// BatchStats counts record outcomes for one batch.
//
// For a completed batch:
//
//	Total == StructuredCount + FlatTextCount + FormatErrors
//	Succeeded + ParseErrors + FormatErrors == Total
type BatchStats struct {
	Total           int64 `json:"total"`
	StructuredCount int64 `json:"structured_count"`
	FlatTextCount   int64 `json:"flat_text_count"`
	Succeeded       int64 `json:"succeeded"`
	ParseErrors     int64 `json:"parse_errors"`
	FormatErrors    int64 `json:"format_errors"`
}

// SuccessRate returns Succeeded/Total as a percentage, or 0 for an empty batch.
func (s BatchStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}

// Add returns the element-wise sum of two stats.
func (s BatchStats) Add(o BatchStats) BatchStats {
	return BatchStats{
		Total:           s.Total + o.Total,
		StructuredCount: s.StructuredCount + o.StructuredCount,
		FlatTextCount:   s.FlatTextCount + o.FlatTextCount,
		Succeeded:       s.Succeeded + o.Succeeded,
		ParseErrors:     s.ParseErrors + o.ParseErrors,
		FormatErrors:    s.FormatErrors + o.FormatErrors,
	}
}

// Balanced reports whether both batch invariants hold.
func (s BatchStats) Balanced() bool {
	return s.Total == s.StructuredCount+s.FlatTextCount+s.FormatErrors &&
		s.Succeeded+s.ParseErrors+s.FormatErrors == s.Total
}

// State is a stage of the per-record pipeline.
type State string

const (
	StateInit        State = "init"
	StateDetecting   State = "detecting"
	StateExtracting  State = "extracting"
	StateDecoding    State = "decoding"
	StateNormalizing State = "normalizing"
	StateEnriching   State = "enriching"
	StateDone        State = "done"
	StateRejected    State = "rejected"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateRejected
}
