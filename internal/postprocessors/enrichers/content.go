package enrichers

import (
	"context"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

var _ driven.Enricher = (*Content)(nil)

// Content classifies content_type with an ordered rule table.
type Content struct {
	rules []domain.ContentRule
}

// NewContent creates a content enricher. A nil table uses the defaults.
func NewContent(rules []domain.ContentRule) *Content {
	if len(rules) == 0 {
		rules = domain.DefaultContentRules()
	}
	lowered := make([]domain.ContentRule, len(rules))
	for i, r := range rules {
		needles := make([]string, len(r.Needles))
		for j, n := range r.Needles {
			needles[j] = strings.ToLower(n)
		}
		lowered[i] = domain.ContentRule{Category: r.Category, Needles: needles}
	}
	return &Content{rules: lowered}
}

// Name returns the enricher name.
func (e *Content) Name() string {
	return "content"
}

// Enrich sets content_category.
func (e *Content) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	if rec.ContentType == nil {
		rec.ContentCategory = domain.ContentUnknown
		return
	}
	rec.ContentCategory = e.Category(*rec.ContentType)
}

// Category returns the first matching rule's category.
func (e *Content) Category(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return domain.ContentUnknown
	}
	for _, r := range e.rules {
		for _, n := range r.Needles {
			if strings.Contains(ct, n) {
				return r.Category
			}
		}
	}
	return domain.ContentOther
}
