package domain

import "time"

// RunStatus is the lifecycle state of a BatchRun.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCanceled  RunStatus = "canceled"
)

// BatchRun records one execution of the pipeline over a source.
type BatchRun struct {
	// ID is a unique identifier (UUID).
	ID string `json:"id"`

	// Source is the connector source the batch read from.
	Source string `json:"source"`

	// Status is the final or current state.
	Status RunStatus `json:"status"`

	// Error holds the fatal error message for failed runs.
	Error string `json:"error,omitempty"`

	// Stats are the batch counters.
	Stats BatchStats `json:"stats"`

	// Alerts is the number of alertable records found.
	Alerts int64 `json:"alerts"`

	// Pools is the per environment/pool health summary.
	Pools []PoolHealth `json:"pools,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the wall time of the run so far.
func (r *BatchRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// PoolHealth summarises accepted records for one (node environment, pool).
type PoolHealth struct {
	Environment   string  `json:"environment"`
	Pool          string  `json:"pool"`
	Requests      int64   `json:"requests"`
	Errors        int64   `json:"errors"`
	Slow          int64   `json:"slow"`
	AvgResponseMs float64 `json:"avg_response_ms"`
	P95ResponseMs float64 `json:"p95_response_ms"`
	ErrorRate     float64 `json:"error_rate"`
	SlowRate      float64 `json:"slow_rate"`
	HealthScore   float64 `json:"health_score"`
}

// Alert categories.
const (
	AlertClientError = "client_error"
	AlertServerError = "server_error"
	AlertSlow        = "performance_slow"
	AlertLarge       = "performance_large"
	AlertUnknown     = "unknown"
)

// Alert is an accepted record that crossed an error or performance threshold.
type Alert struct {
	// RunID links the alert to its batch.
	RunID string `json:"run_id"`

	// Source and Line locate the raw record.
	Source string `json:"source"`
	Line   int64  `json:"line"`

	// Reasons are human-readable trigger descriptions.
	Reasons []string `json:"reasons"`

	// Category is a comma-joined list of alert categories.
	Category string `json:"category"`

	// Record is the enriched record that triggered the alert.
	Record EnrichedRecord `json:"record"`
}
