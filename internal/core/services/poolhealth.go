package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

type poolKey struct {
	environment string
	pool        string
}

type poolAccumulator struct {
	requests int64
	errors   int64
	slow     int64
	times    []int64
}

// PoolHealthAggregator summarises accepted records per
// (node environment, pool environment). It is not safe for concurrent
// use; feed it from the collector goroutine.
type PoolHealthAggregator struct {
	slowThresholdMs int64
	pools           map[poolKey]*poolAccumulator
}

// NewPoolHealthAggregator creates an empty aggregator.
func NewPoolHealthAggregator(slowThresholdMs int64) *PoolHealthAggregator {
	if slowThresholdMs <= 0 {
		slowThresholdMs = domain.DefaultSlowThresholdMs
	}
	return &PoolHealthAggregator{
		slowThresholdMs: slowThresholdMs,
		pools:           make(map[poolKey]*poolAccumulator),
	}
}

// Add accounts one record.
func (a *PoolHealthAggregator) Add(rec domain.EnrichedRecord) {
	key := poolKey{environment: rec.NodeEnvironment, pool: "unknown"}
	if rec.PoolEnvironment != nil {
		key.pool = *rec.PoolEnvironment
	}
	if key.environment == "" {
		key.environment = "unknown"
	}

	acc, ok := a.pools[key]
	if !ok {
		acc = &poolAccumulator{}
		a.pools[key] = acc
	}

	acc.requests++
	if rec.ResponseCode != nil && *rec.ResponseCode >= 400 {
		acc.errors++
	}
	if rec.ResponseTimeMs != nil {
		acc.times = append(acc.times, *rec.ResponseTimeMs)
		if *rec.ResponseTimeMs > a.slowThresholdMs {
			acc.slow++
		}
	}
}

// Summary returns one entry per pool, sorted by environment then pool.
func (a *PoolHealthAggregator) Summary() []domain.PoolHealth {
	out := make([]domain.PoolHealth, 0, len(a.pools))
	for key, acc := range a.pools {
		h := domain.PoolHealth{
			Environment: key.environment,
			Pool:        key.pool,
			Requests:    acc.requests,
			Errors:      acc.errors,
			Slow:        acc.slow,
		}

		if n := len(acc.times); n > 0 {
			sorted := append([]int64(nil), acc.times...)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

			var sum int64
			for _, t := range sorted {
				sum += t
			}
			h.AvgResponseMs = float64(sum) / float64(n)

			idx := int(0.95 * float64(n))
			if idx >= n {
				idx = n - 1
			}
			h.P95ResponseMs = float64(sorted[idx])
		}

		h.ErrorRate = float64(acc.errors) / float64(acc.requests) * 100
		h.SlowRate = float64(acc.slow) / float64(acc.requests) * 100
		h.HealthScore = math.Max(0, 100-h.ErrorRate-h.SlowRate/2)

		out = append(out, h)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Environment != out[j].Environment {
			return out[i].Environment < out[j].Environment
		}
		return out[i].Pool < out[j].Pool
	})
	return out
}
