package domain

import (
	"fmt"
	"time"
)

// LatencyBand maps response times strictly below UpperMs to Category.
type LatencyBand struct {
	UpperMs  int64
	Category string
}

// ContentRule maps a content type containing any of Needles
// (case-insensitive) to Category.
type ContentRule struct {
	Category string
	Needles  []string
}

// Latency profile names.
const (
	LatencyProfileStandard = "standard"
	LatencyProfileLegacy   = "legacy"
)

// Mobile token preset names.
const (
	MobilePresetDefault  = "default"
	MobilePresetExtended = "extended"
)

// DefaultSlowThresholdMs is the is_slow cut-off.
const DefaultSlowThresholdMs int64 = 5000

// DefaultLargeResponseBytes is the alerting cut-off for response_size (10 MiB).
const DefaultLargeResponseBytes int64 = 10 * 1024 * 1024

// LatencyProfile returns the threshold table for a named profile.
// Bands are ascending; times at or above the last band are very_slow.
func LatencyProfile(name string) ([]LatencyBand, error) {
	switch name {
	case "", LatencyProfileStandard:
		return []LatencyBand{
			{UpperMs: 100, Category: LatencyFast},
			{UpperMs: 1000, Category: LatencyNormal},
			{UpperMs: 5000, Category: LatencySlow},
		}, nil
	case LatencyProfileLegacy:
		return []LatencyBand{
			{UpperMs: 100, Category: LatencyFast},
			{UpperMs: 500, Category: LatencyNormal},
			{UpperMs: 5000, Category: LatencySlow},
		}, nil
	default:
		return nil, fmt.Errorf("%w: latency profile %q", ErrInvalidInput, name)
	}
}

// LatencyBandsFromThresholds builds a table from the fast, normal and
// slow upper bounds.
func LatencyBandsFromThresholds(upper []int64) ([]LatencyBand, error) {
	if len(upper) != 3 {
		return nil, fmt.Errorf("%w: latency thresholds need 3 values, got %d", ErrInvalidInput, len(upper))
	}
	if upper[0] <= 0 || upper[0] >= upper[1] || upper[1] >= upper[2] {
		return nil, fmt.Errorf("%w: latency thresholds must be positive and ascending: %v", ErrInvalidInput, upper)
	}
	return []LatencyBand{
		{UpperMs: upper[0], Category: LatencyFast},
		{UpperMs: upper[1], Category: LatencyNormal},
		{UpperMs: upper[2], Category: LatencySlow},
	}, nil
}

// MobileTokens returns the user-agent tokens for a named preset.
func MobileTokens(preset string) ([]string, error) {
	switch preset {
	case "", MobilePresetDefault:
		return []string{"Mobile", "iPhone", "Android", "iPad", "Windows Phone"}, nil
	case MobilePresetExtended:
		return []string{
			"Mobile", "iPhone", "Android", "iPad", "iPod",
			"BlackBerry", "Windows Phone", "Opera Mini",
		}, nil
	default:
		return nil, fmt.Errorf("%w: mobile preset %q", ErrInvalidInput, preset)
	}
}

// DefaultContentRules returns the ordered content category table.
// The first matching rule wins.
func DefaultContentRules() []ContentRule {
	return []ContentRule{
		{Category: ContentHTML, Needles: []string{"html"}},
		{Category: ContentJS, Needles: []string{"javascript", "ecmascript"}},
		{Category: ContentCSS, Needles: []string{"css"}},
		{Category: ContentImage, Needles: []string{"image"}},
		{Category: ContentFont, Needles: []string{"font", "woff"}},
		{Category: ContentAPI, Needles: []string{"json", "xml", "api"}},
		{Category: ContentVideo, Needles: []string{"video"}},
		{Category: ContentAudio, Needles: []string{"audio"}},
		{Category: ContentDocument, Needles: []string{"pdf", "msword", "officedocument"}},
	}
}

// EnrichmentConfig holds the tunable tables used by the enrichment chain.
type EnrichmentConfig struct {
	// LatencyBands is the ascending response time table.
	LatencyBands []LatencyBand

	// SlowThresholdMs sets is_slow for response times strictly above it.
	SlowThresholdMs int64

	// MobileTokens are matched as substrings of the user agent.
	MobileTokens []string

	// MobileCaseInsensitive folds case before matching MobileTokens.
	MobileCaseInsensitive bool

	// ContentRules is the ordered content category table.
	ContentRules []ContentRule

	// EngineVersion is stamped on every record.
	EngineVersion string

	// Now supplies the processing clock. Nil means time.Now.
	Now func() time.Time
}

// DefaultEnrichmentConfig returns the standard tables.
func DefaultEnrichmentConfig() EnrichmentConfig {
	bands, _ := LatencyProfile(LatencyProfileStandard)
	tokens, _ := MobileTokens(MobilePresetDefault)
	return EnrichmentConfig{
		LatencyBands:    bands,
		SlowThresholdMs: DefaultSlowThresholdMs,
		MobileTokens:    tokens,
		ContentRules:    DefaultContentRules(),
		EngineVersion:   "f5lake/dev",
		Now:             time.Now,
	}
}

// Clock returns the configured clock, defaulting to time.Now.
func (c EnrichmentConfig) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}
