package enrichers

import (
	"context"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

var _ driven.Enricher = (*Cache)(nil)

// Cache derives cache_hit from cache_age.
type Cache struct{}

// NewCache creates a cache enricher.
func NewCache() *Cache {
	return &Cache{}
}

// Name returns the enricher name.
func (e *Cache) Name() string {
	return "cache"
}

// Enrich sets cache_hit.
func (e *Cache) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	if rec.CacheAge == nil {
		rec.CacheHit = false
		return
	}
	v := strings.TrimSpace(*rec.CacheAge)
	rec.CacheHit = v != "" && v != "-" && v != `""`
}
