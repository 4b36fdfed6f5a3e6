package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/postprocessors/enrichers"
)

// RegisterDefaults registers all built-in enrichers with the registry.
// base supplies the tables; per-enricher config maps may override them.
func RegisterDefaults(r *Registry, base domain.EnrichmentConfig) {
	now := base.Clock()

	r.Register("timestamps", func(_ map[string]any) (driven.Enricher, error) {
		return enrichers.NewTimestamps(now), nil
	})
	r.Register("status", func(_ map[string]any) (driven.Enricher, error) {
		return enrichers.NewStatus(), nil
	})
	r.Register("latency", func(cfg map[string]any) (driven.Enricher, error) {
		return buildLatency(base, cfg)
	})
	r.Register("mobile", func(cfg map[string]any) (driven.Enricher, error) {
		return buildMobile(base, cfg)
	})
	r.Register("content", func(_ map[string]any) (driven.Enricher, error) {
		return enrichers.NewContent(base.ContentRules), nil
	})
	r.Register("cache", func(_ map[string]any) (driven.Enricher, error) {
		return enrichers.NewCache(), nil
	})
	r.Register("metadata", func(_ map[string]any) (driven.Enricher, error) {
		return enrichers.NewMetadata(base.EngineVersion, now), nil
	})
}

// NewDefaultPipeline builds the standard enrichment chain for base.
func NewDefaultPipeline(base domain.EnrichmentConfig) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r, base)
	return r.BuildPipeline(domain.DefaultPipelineConfig())
}

// buildLatency creates a latency enricher.
// Supported config keys:
//   - profile (string): "standard" or "legacy"
//   - slow_threshold_ms (int): is_slow cut-off
func buildLatency(base domain.EnrichmentConfig, cfg map[string]any) (driven.Enricher, error) {
	opts := []enrichers.LatencyOption{
		enrichers.WithBands(base.LatencyBands),
		enrichers.WithSlowThreshold(base.SlowThresholdMs),
	}

	if name, ok := cfg["profile"].(string); ok {
		bands, err := domain.LatencyProfile(name)
		if err != nil {
			return nil, fmt.Errorf("latency: %w", err)
		}
		opts = append(opts, enrichers.WithBands(bands))
	}
	if ms := getIntFromConfig(cfg, "slow_threshold_ms"); ms > 0 {
		opts = append(opts, enrichers.WithSlowThreshold(int64(ms)))
	}

	return enrichers.NewLatency(opts...), nil
}

// buildMobile creates a mobile enricher.
// Supported config keys:
//   - preset (string): "default" or "extended"
//   - case_insensitive (bool)
func buildMobile(base domain.EnrichmentConfig, cfg map[string]any) (driven.Enricher, error) {
	tokens := base.MobileTokens
	if preset, ok := cfg["preset"].(string); ok {
		t, err := domain.MobileTokens(preset)
		if err != nil {
			return nil, fmt.Errorf("mobile: %w", err)
		}
		tokens = t
	}

	caseInsensitive := base.MobileCaseInsensitive
	if v, ok := cfg["case_insensitive"].(bool); ok {
		caseInsensitive = v
	}

	return enrichers.NewMobile(
		enrichers.WithTokens(tokens),
		enrichers.WithCaseInsensitive(caseInsensitive),
	), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
