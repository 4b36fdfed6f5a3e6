package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/logger"
)

// DefaultFlushEvery is how many records a worker processes between
// merges of its tally into the shared tracker.
const DefaultFlushEvery = 256

// EmitFunc receives each accepted record with its raw source.
// It is called from a single goroutine.
type EmitFunc func(raw domain.RawRecord, rec domain.EnrichedRecord) error

// BatchOrchestrator runs a RecordPipeline over a stream of records with a
// pool of workers.
type BatchOrchestrator struct {
	pipeline   *RecordPipeline
	workers    int
	flushEvery int
	tracker    *StatsTracker
	running    atomic.Bool
}

// OrchestratorOption configures a BatchOrchestrator.
type OrchestratorOption func(*BatchOrchestrator)

// WithWorkers sets the number of workers. Values below 1 mean one per CPU.
func WithWorkers(n int) OrchestratorOption {
	return func(o *BatchOrchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithFlushEvery sets the tally merge interval in records.
func WithFlushEvery(n int) OrchestratorOption {
	return func(o *BatchOrchestrator) {
		if n > 0 {
			o.flushEvery = n
		}
	}
}

// NewBatchOrchestrator creates an orchestrator for pipeline.
func NewBatchOrchestrator(pipeline *RecordPipeline, opts ...OrchestratorOption) *BatchOrchestrator {
	o := &BatchOrchestrator{
		pipeline:   pipeline,
		workers:    runtime.NumCPU(),
		flushEvery: DefaultFlushEvery,
		tracker:    NewStatsTracker(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Tracker exposes live statistics of the current or last batch.
func (o *BatchOrchestrator) Tracker() *StatsTracker {
	return o.tracker
}

// Workers returns the configured worker count.
func (o *BatchOrchestrator) Workers() int {
	return o.workers
}

type accepted struct {
	raw domain.RawRecord
	rec domain.EnrichedRecord
}

// Run processes records from in until it is closed, ctx is cancelled or a
// fatal error occurs, and returns the batch statistics.
//
// Records are processed concurrently with no ordering guarantee. Rejected
// records are only counted. On cancellation no further records are pulled
// but records already taken by a worker run to completion and are emitted.
// A contract violation or an emit error stops the batch and is returned.
//
//nolint:gocognit // Worker pool with a single collector
func (o *BatchOrchestrator) Run(ctx context.Context, in <-chan domain.RawRecord, emit EmitFunc) (domain.BatchStats, error) {
	if !o.running.CompareAndSwap(false, true) {
		return domain.BatchStats{}, domain.ErrBatchInProgress
	}
	defer o.running.Store(false)

	o.tracker.Reset()

	stop, halt := context.WithCancelCause(context.Background())
	defer halt(nil)

	results := make(chan accepted, o.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.work(ctx, stop, halt, in, results)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Drain every result so workers never block, even after a failure.
	for r := range results {
		if stop.Err() != nil {
			continue
		}
		if err := emit(r.raw, r.rec); err != nil {
			halt(fmt.Errorf("emit: %w", err))
		}
	}

	stats := o.tracker.Summary()

	if err := context.Cause(stop); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, context.Cause(ctx)
	}
	return stats, nil
}

func (o *BatchOrchestrator) work(
	ctx context.Context,
	stop context.Context,
	halt context.CancelCauseFunc,
	in <-chan domain.RawRecord,
	results chan<- accepted,
) {
	var tally Tally
	defer func() { o.tracker.Merge(tally) }()

	processed := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop.Done():
			return
		case raw, ok := <-in:
			if !ok {
				return
			}

			rec, state, err := o.pipeline.Process(ctx, raw, &tally)
			if err != nil && errors.Is(err, domain.ErrContractViolation) {
				halt(fmt.Errorf("%s line %d: %w", raw.Source, raw.Line, err))
				return
			}

			if state == domain.StateDone {
				results <- accepted{raw: raw, rec: rec}
			} else if err != nil {
				logger.Debug("Rejected %s:%d: %v", raw.Source, raw.Line, err)
			}

			processed++
			if processed%o.flushEvery == 0 {
				o.tracker.Merge(tally)
				tally.Reset()
			}
		}
	}
}
