package postprocessors

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// mockEnricher records calls and tags the record's engine version.
type mockEnricher struct {
	name  string
	calls *[]string
}

func (m *mockEnricher) Name() string {
	return m.name
}

func (m *mockEnricher) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	*m.calls = append(*m.calls, m.name)
	rec.EngineVersion += m.name
}

func fixedClock() time.Time {
	return time.Date(2025, time.August, 9, 12, 0, 0, 0, time.UTC)
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())
}

func TestPipeline_Add(t *testing.T) {
	var calls []string
	p := NewPipeline()
	p.Add(&mockEnricher{name: "test", calls: &calls})
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"test"}, p.Names())
}

func TestPipeline_Enrich_EmptyPipelineKeepsFallbacks(t *testing.T) {
	out := NewPipeline().Enrich(context.Background(), domain.NormalizedRecord{Method: "GET"})

	assert.Equal(t, "GET", out.Method)
	assert.Equal(t, domain.StatusUnknown, out.StatusCategory)
	assert.Equal(t, domain.LatencyUnknown, out.ResponseTimeCategory)
	assert.Equal(t, domain.ContentUnknown, out.ContentCategory)
	assert.Nil(t, out.Year)
}

func TestPipeline_Enrich_RunsInOrder(t *testing.T) {
	var calls []string
	p := NewPipeline(
		&mockEnricher{name: "a", calls: &calls},
		&mockEnricher{name: "b", calls: &calls},
	)

	out := p.Enrich(context.Background(), domain.NormalizedRecord{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, "ab", out.EngineVersion)
}

func TestNewDefaultPipeline(t *testing.T) {
	cfg := domain.DefaultEnrichmentConfig()
	cfg.Now = fixedClock
	cfg.EngineVersion = "f5lake/test"

	p, err := NewDefaultPipeline(cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPipelineConfig().Enrichers, p.Names())

	code, ms := int64(404), int64(6000)
	ua := "Mozilla/5.0 (iPhone)"
	ct := "application/json"
	rec := domain.NormalizedRecord{
		TimestampSyslog: "Aug  8 03:33:33",
		TimestampOrigin: "08/Aug/2025:03:33:33 -0300",
		ResponseCode:    &code,
		ResponseTimeMs:  &ms,
		UserAgent:       &ua,
		ContentType:     &ct,
	}

	out := p.Enrich(context.Background(), rec)
	assert.Equal(t, domain.StatusClientError, out.StatusCategory)
	assert.True(t, out.IsError)
	assert.True(t, out.IsSlow)
	assert.Equal(t, domain.LatencyVerySlow, out.ResponseTimeCategory)
	assert.True(t, out.IsMobile)
	assert.Equal(t, domain.ContentAPI, out.ContentCategory)
	assert.False(t, out.CacheHit)
	require.NotNil(t, out.ParsedTimestampSyslog)
	assert.Equal(t, "2025-08-08T03:33:33", *out.ParsedTimestampSyslog)
	assert.Equal(t, "f5lake/test", out.EngineVersion)
	assert.Equal(t, "2025-08-09", out.ProcessingDate)
}

func TestNewDefaultPipeline_Idempotent(t *testing.T) {
	cfg := domain.DefaultEnrichmentConfig()
	cfg.Now = fixedClock

	p, err := NewDefaultPipeline(cfg)
	require.NoError(t, err)

	code := int64(200)
	rec := domain.NormalizedRecord{TimestampSyslog: "Aug  8 03:33:33", ResponseCode: &code}

	first, err := json.Marshal(p.Enrich(context.Background(), rec))
	require.NoError(t, err)
	second, err := json.Marshal(p.Enrich(context.Background(), rec))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
