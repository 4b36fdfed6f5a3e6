package enrichers

import (
	"context"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

var _ driven.Enricher = (*Mobile)(nil)

// Mobile flags user agents containing a mobile token.
type Mobile struct {
	tokens          []string
	caseInsensitive bool
}

// MobileOption configures the mobile enricher.
type MobileOption func(*Mobile)

// WithTokens replaces the token list.
func WithTokens(tokens []string) MobileOption {
	return func(e *Mobile) {
		if len(tokens) > 0 {
			e.tokens = tokens
		}
	}
}

// WithCaseInsensitive folds case before matching.
func WithCaseInsensitive(v bool) MobileOption {
	return func(e *Mobile) {
		e.caseInsensitive = v
	}
}

// NewMobile creates a mobile enricher with the default token preset.
func NewMobile(opts ...MobileOption) *Mobile {
	tokens, _ := domain.MobileTokens(domain.MobilePresetDefault)
	e := &Mobile{tokens: tokens}
	for _, opt := range opts {
		opt(e)
	}
	if e.caseInsensitive {
		folded := make([]string, len(e.tokens))
		for i, t := range e.tokens {
			folded[i] = strings.ToLower(t)
		}
		e.tokens = folded
	}
	return e
}

// Name returns the enricher name.
func (e *Mobile) Name() string {
	return "mobile"
}

// Enrich sets is_mobile.
func (e *Mobile) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	rec.IsMobile = rec.UserAgent != nil && e.Match(*rec.UserAgent)
}

// Match reports whether ua contains any token.
func (e *Mobile) Match(ua string) bool {
	if ua == "" {
		return false
	}
	if e.caseInsensitive {
		ua = strings.ToLower(ua)
	}
	for _, t := range e.tokens {
		if strings.Contains(ua, t) {
			return true
		}
	}
	return false
}
