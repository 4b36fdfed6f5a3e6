package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
	"github.com/custodia-labs/f5lake/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultSinkBatchSize is the number of records per sink write.
const DefaultSinkBatchSize = 500

// alertBatchSize caps alerts per notifier call.
const alertBatchSize = 1000

// IngestService reads a source, runs the batch orchestrator and delivers
// the results to sinks, the alert notifier, the run store and reporters.
type IngestService struct {
	factory         driven.ConnectorFactory
	orchestrator    *BatchOrchestrator
	sink            driven.RecordSink
	runs            driven.RunStore
	alerts          *AlertEvaluator
	notifier        driven.AlertNotifier
	reporters       []driven.StatsReporter
	batchSize       int
	slowThresholdMs int64

	// Status tracking
	mu      sync.RWMutex
	current *driving.IngestStatus
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithSink sets the record destination.
func WithSink(sink driven.RecordSink) IngestOption {
	return func(s *IngestService) { s.sink = sink }
}

// WithRunStore persists batch runs.
func WithRunStore(runs driven.RunStore) IngestOption {
	return func(s *IngestService) { s.runs = runs }
}

// WithAlerts enables alert evaluation. The notifier may be nil, in which
// case alerts are only counted.
func WithAlerts(evaluator *AlertEvaluator, notifier driven.AlertNotifier) IngestOption {
	return func(s *IngestService) {
		s.alerts = evaluator
		s.notifier = notifier
	}
}

// WithReporter adds a stats reporter.
func WithReporter(r driven.StatsReporter) IngestOption {
	return func(s *IngestService) {
		if r != nil {
			s.reporters = append(s.reporters, r)
		}
	}
}

// WithSinkBatchSize sets the number of records per sink write.
func WithSinkBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithSlowThreshold sets the slow cut-off used for pool health.
func WithSlowThreshold(ms int64) IngestOption {
	return func(s *IngestService) {
		if ms > 0 {
			s.slowThresholdMs = ms
		}
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	factory driven.ConnectorFactory,
	orchestrator *BatchOrchestrator,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		factory:         factory,
		orchestrator:    orchestrator,
		batchSize:       DefaultSinkBatchSize,
		slowThresholdMs: domain.DefaultSlowThresholdMs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes every record of source as one batch.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *IngestService) Ingest(ctx context.Context, source string) (*domain.BatchRun, error) {
	// 1. Create connector from source
	if s.factory == nil {
		return nil, fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := s.factory.Create(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	// 2. Validate connector
	if err := connector.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate source: %w", err)
	}

	// 3. Register the run
	run := domain.BatchRun{
		ID:        uuid.NewString(),
		Source:    connector.SourceID(),
		Status:    domain.RunRunning,
		StartedAt: time.Now(),
	}
	if !s.begin(run) {
		return nil, domain.ErrBatchInProgress
	}
	defer s.end()

	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	logger.Info("Starting batch %s for %s", run.ID, run.Source)

	// 4. Stream records through the orchestrator
	readCtx, fail := context.WithCancelCause(ctx)
	defer fail(nil)

	records, errs := connector.Read(readCtx)
	in := forward(readCtx, fail, records, errs)

	c := &collector{
		svc:   s,
		runID: run.ID,
		ctx:   context.WithoutCancel(ctx),
		pools: NewPoolHealthAggregator(s.slowThresholdMs),
	}
	stats, runErr := s.orchestrator.Run(readCtx, in, c.emit)

	// 5. Flush what the collector still holds
	if err := c.flush(); err != nil && runErr == nil {
		runErr = err
	}

	// 6. Finalise the run
	run.Stats = stats
	run.Alerts = c.alertCount
	run.Pools = c.pools.Summary()
	run.FinishedAt = time.Now()
	switch {
	case runErr == nil:
		run.Status = domain.RunSucceeded
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		run.Status = domain.RunCanceled
		run.Error = runErr.Error()
	default:
		run.Status = domain.RunFailed
		run.Error = runErr.Error()
	}

	if s.runs != nil {
		if err := s.runs.Save(context.WithoutCancel(ctx), run); err != nil {
			logger.Error("Failed to save run %s: %v", run.ID, err)
		}
	}
	for _, r := range s.reporters {
		r.ReportRun(run)
	}

	logger.Info("Batch %s %s: %d records, %d succeeded, %d parse errors, %d format errors (%.1f%%)",
		run.ID, run.Status, stats.Total, stats.Succeeded, stats.ParseErrors, stats.FormatErrors, stats.SuccessRate())

	return &run, runErr
}

// Watch ingests every location reported by w as its own batch until ctx
// is done. done is called after each batch.
func (s *IngestService) Watch(ctx context.Context, w driven.Watcher, done func(*domain.BatchRun, error)) error {
	locations, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case location, ok := <-locations:
			if !ok {
				return nil
			}
			run, err := s.Ingest(ctx, location)
			if done != nil {
				done(run, err)
			}
		}
	}
}

// Status returns progress of the batch currently running, if any.
func (s *IngestService) Status(_ context.Context) (*driving.IngestStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return &driving.IngestStatus{Running: false}, nil
	}

	// Return a copy to avoid race conditions
	status := *s.current
	status.Stats = s.orchestrator.Tracker().Summary()
	return &status, nil
}

func (s *IngestService) begin(run domain.BatchRun) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return false
	}
	s.current = &driving.IngestStatus{
		RunID:   run.ID,
		Source:  run.Source,
		Running: true,
	}
	return true
}

func (s *IngestService) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// forward copies records until both connector channels close. A connector
// error cancels the batch with that error as the cause.
func forward(
	ctx context.Context,
	fail context.CancelCauseFunc,
	records <-chan domain.RawRecord,
	errs <-chan error,
) <-chan domain.RawRecord {
	out := make(chan domain.RawRecord)
	go func() {
		defer close(out)
		for records != nil || errs != nil {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				if err != nil {
					fail(fmt.Errorf("read source: %w", err))
					return
				}
			case rec, ok := <-records:
				if !ok {
					records = nil
					continue
				}
				select {
				case out <- rec:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// collector runs on the orchestrator's single emit goroutine.
type collector struct {
	svc        *IngestService
	runID      string
	ctx        context.Context
	buf        []domain.EnrichedRecord
	pending    []domain.Alert
	alertCount int64
	pools      *PoolHealthAggregator
}

func (c *collector) emit(raw domain.RawRecord, rec domain.EnrichedRecord) error {
	c.pools.Add(rec)

	if c.svc.alerts != nil {
		if alert, ok := c.svc.alerts.Evaluate(c.runID, raw, rec); ok {
			c.alertCount++
			if c.svc.notifier != nil {
				c.pending = append(c.pending, alert)
				if len(c.pending) >= alertBatchSize {
					c.notify()
				}
			}
		}
	}

	if c.svc.sink == nil {
		return nil
	}
	c.buf = append(c.buf, rec)
	if len(c.buf) >= c.svc.batchSize {
		return c.write()
	}
	return nil
}

func (c *collector) write() error {
	if len(c.buf) == 0 {
		return nil
	}
	if err := c.svc.sink.Write(c.ctx, c.buf); err != nil {
		return fmt.Errorf("write %s: %w", c.svc.sink.Name(), err)
	}
	c.buf = make([]domain.EnrichedRecord, 0, c.svc.batchSize)
	return nil
}

// notify delivers pending alerts. Delivery failures are logged, not fatal.
func (c *collector) notify() {
	if len(c.pending) == 0 {
		return
	}
	if err := c.svc.notifier.Notify(c.ctx, c.pending); err != nil {
		logger.Warn("Alert delivery failed for %d alerts: %v", len(c.pending), err)
	}
	c.pending = nil
}

func (c *collector) flush() error {
	if c.svc.notifier != nil {
		c.notify()
	}
	if c.svc.sink == nil {
		return nil
	}
	return c.write()
}
