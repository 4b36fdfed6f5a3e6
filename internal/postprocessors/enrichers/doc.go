// Package enrichers provides the built-in enrichment steps.
//
// Each Enricher derives one group of analytic dimensions from a normalised
// record. Enrichers never fail: a field that cannot be derived keeps the
// fallback set by domain.NewEnrichedRecord.
package enrichers
