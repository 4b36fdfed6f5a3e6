// Package metrics exports batch statistics and pool health to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Reporter implements the interface.
var _ driven.StatsReporter = (*Reporter)(nil)

const namespace = "f5lake"

// Reporter turns finished batch runs into Prometheus metrics.
type Reporter struct {
	records       *prometheus.CounterVec
	batches       *prometheus.CounterVec
	alerts        prometheus.Counter
	duration      prometheus.Histogram
	successRate   prometheus.Gauge
	poolRequests  *prometheus.GaugeVec
	poolErrorRate *prometheus.GaugeVec
	poolSlowRate  *prometheus.GaugeVec
	poolP95       *prometheus.GaugeVec
	poolHealth    *prometheus.GaugeVec
}

// NewReporter creates the metrics and registers them with reg.
func NewReporter(reg prometheus.Registerer) (*Reporter, error) {
	poolLabels := []string{"environment", "pool"}

	r := &Reporter{
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Records processed, by outcome",
			},
			[]string{"outcome"},
		),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "Batches finished, by status",
			},
			[]string{"status"},
		),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alertable records found",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of finished batches",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		successRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_batch_success_rate",
			Help:      "Succeeded/total of the last batch, in percent",
		}),
		poolRequests:  poolGauge("requests", "Requests in the last batch", poolLabels),
		poolErrorRate: poolGauge("error_rate", "Error responses in the last batch, in percent", poolLabels),
		poolSlowRate:  poolGauge("slow_rate", "Slow responses in the last batch, in percent", poolLabels),
		poolP95:       poolGauge("p95_response_ms", "95th percentile response time in the last batch", poolLabels),
		poolHealth:    poolGauge("health_score", "Pool health score (0-100) in the last batch", poolLabels),
	}

	for _, c := range []prometheus.Collector{
		r.records, r.batches, r.alerts, r.duration, r.successRate,
		r.poolRequests, r.poolErrorRate, r.poolSlowRate, r.poolP95, r.poolHealth,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

func poolGauge(name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// ReportRun records a finished batch. Pool gauges are replaced so that
// they describe only the latest batch.
func (r *Reporter) ReportRun(run domain.BatchRun) {
	s := run.Stats
	r.records.WithLabelValues(domain.OutcomeStructured.String()).Add(float64(s.StructuredCount))
	r.records.WithLabelValues(domain.OutcomeFlatText.String()).Add(float64(s.FlatTextCount))
	r.records.WithLabelValues(domain.OutcomeSucceeded.String()).Add(float64(s.Succeeded))
	r.records.WithLabelValues(domain.OutcomeExtractionFailed.String()).Add(float64(s.ParseErrors))
	r.records.WithLabelValues(domain.OutcomeFormatUnknown.String()).Add(float64(s.FormatErrors))

	r.batches.WithLabelValues(string(run.Status)).Inc()
	r.alerts.Add(float64(run.Alerts))
	r.successRate.Set(s.SuccessRate())
	if !run.FinishedAt.IsZero() {
		r.duration.Observe(run.Duration().Seconds())
	}

	for _, g := range []*prometheus.GaugeVec{r.poolRequests, r.poolErrorRate, r.poolSlowRate, r.poolP95, r.poolHealth} {
		g.Reset()
	}
	for _, p := range run.Pools {
		r.poolRequests.WithLabelValues(p.Environment, p.Pool).Set(float64(p.Requests))
		r.poolErrorRate.WithLabelValues(p.Environment, p.Pool).Set(p.ErrorRate)
		r.poolSlowRate.WithLabelValues(p.Environment, p.Pool).Set(p.SlowRate)
		r.poolP95.WithLabelValues(p.Environment, p.Pool).Set(p.P95ResponseMs)
		r.poolHealth.WithLabelValues(p.Environment, p.Pool).Set(p.HealthScore)
	}
}

// NewRegistry returns a registry with the Go runtime and process
// collectors installed.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	}
}
