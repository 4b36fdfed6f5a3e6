package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// RecordPipeline runs one raw record through detection, extraction or
// decoding, normalisation and enrichment.
//
// Process is synchronous and performs no I/O. A RecordPipeline holds no
// mutable state and may be shared by any number of workers.
type RecordPipeline struct {
	detector   driven.FormatDetector
	extractor  driven.FieldExtractor
	decoder    driven.StructuredDecoder
	normaliser driven.Normaliser
	enricher   driven.EnrichmentPipeline
}

// NewRecordPipeline creates a record pipeline from its stages.
func NewRecordPipeline(
	detector driven.FormatDetector,
	extractor driven.FieldExtractor,
	decoder driven.StructuredDecoder,
	normaliser driven.Normaliser,
	enricher driven.EnrichmentPipeline,
) *RecordPipeline {
	return &RecordPipeline{
		detector:   detector,
		extractor:  extractor,
		decoder:    decoder,
		normaliser: normaliser,
		enricher:   enricher,
	}
}

// Detect classifies a raw payload.
func (p *RecordPipeline) Detect(payload string) domain.DetectedFormat {
	return p.detector.Detect(payload)
}

// Process runs the state machine for one record and reports outcomes to obs.
//
// It returns StateDone with the enriched record, or StateRejected with an
// error wrapping ErrFormatUnknown or ErrExtractionMismatch. An error
// wrapping ErrContractViolation is returned with the state where the
// breach was found; callers must treat it as fatal.
//
//nolint:gocyclo // State machine with one branch per transition
func (p *RecordPipeline) Process(
	ctx context.Context,
	raw domain.RawRecord,
	obs Observer,
) (domain.EnrichedRecord, domain.State, error) {
	// 1. DETECT
	state := domain.StateDetecting
	format := p.detector.Detect(raw.Payload)

	// 2. EXTRACT or DECODE
	var fields domain.FieldMap
	var err error
	switch format {
	case domain.FormatFlatText:
		obs.Observe(domain.OutcomeFlatText)
		state = domain.StateExtracting
		fields, err = p.extractor.Extract(raw.Payload)
	case domain.FormatStructured:
		obs.Observe(domain.OutcomeStructured)
		state = domain.StateDecoding
		fields, err = p.decoder.Decode(raw.Payload)
	default:
		obs.Observe(domain.OutcomeFormatUnknown)
		return domain.EnrichedRecord{}, domain.StateRejected, domain.ErrFormatUnknown
	}
	if err != nil {
		obs.Observe(domain.OutcomeExtractionFailed)
		return domain.EnrichedRecord{}, domain.StateRejected, fmt.Errorf("%s: %w", state, err)
	}

	// 3. NORMALISE
	state = domain.StateNormalizing
	normalised, err := p.normaliser.Normalise(fields)
	if err != nil {
		if !errors.Is(err, domain.ErrContractViolation) {
			err = fmt.Errorf("%w: %w", domain.ErrContractViolation, err)
		}
		return domain.EnrichedRecord{}, state, err
	}

	// 4. ENRICH
	state = domain.StateEnriching
	enriched := p.enricher.Enrich(ctx, normalised)

	obs.Observe(domain.OutcomeSucceeded)
	state = domain.StateDone
	return enriched, state, nil
}
