package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/f5lake/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, svc.GetDefaults(), *settings)
	assert.Equal(t, ":memory:", svc.Path())
}

func TestSettingsService_Get_InvalidStoredValuesFallBack(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("input.encoding", "ebcdic"))
	require.NoError(t, store.Set("enrichment.latency_profile", "turbo"))
	require.NoError(t, store.Set("output.sinks", []any{"kafka"}))
	require.NoError(t, store.Set("pipeline.batch_size", -3))
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	d := domain.DefaultAppSettings()
	assert.Equal(t, d.Input.Encoding, settings.Input.Encoding)
	assert.Equal(t, d.Enrichment.LatencyProfile, settings.Enrichment.LatencyProfile)
	assert.Equal(t, d.Output.Sinks, settings.Output.Sinks)
	assert.Equal(t, d.Pipeline.BatchSize, settings.Pipeline.BatchSize)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.Set("pipeline.workers", "8"))
	require.NoError(t, svc.Set("input.encoding", "iso-8859-1"))
	require.NoError(t, svc.Set("enrichment.latency_thresholds", "50, 200, 2000"))
	require.NoError(t, svc.Set("enrichment.mobile_tokens", "Mobile,Kindle"))
	require.NoError(t, svc.Set("enrichment.mobile_case_insensitive", "true"))
	require.NoError(t, svc.Set("output.sinks", "ndjson,nats"))
	require.NoError(t, svc.Set("alerts.rate_per_second", "2.5"))
	require.NoError(t, svc.Set("alerts.webhook_url", "https://hooks.example.com/f5"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 8, settings.Pipeline.Workers)
	assert.Equal(t, domain.EncodingISO88591, settings.Input.Encoding)
	assert.Equal(t, []int64{50, 200, 2000}, settings.Enrichment.LatencyThresholds)
	assert.Equal(t, []string{"Mobile", "Kindle"}, settings.Enrichment.MobileTokens)
	assert.True(t, settings.Enrichment.MobileCaseInsensitive)
	assert.Equal(t, []domain.SinkType{domain.SinkNDJSON, domain.SinkNATS}, settings.Output.Sinks)
	assert.InDelta(t, 2.5, settings.Alerts.RatePerSecond, 0.0001)
	assert.Equal(t, "https://hooks.example.com/f5", settings.Alerts.WebhookURL)

	cfg, err := settings.Enrichment.EnrichmentConfig("f5lake/test")
	require.NoError(t, err)
	assert.Equal(t, int64(50), cfg.LatencyBands[0].UpperMs)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		key   string
		value string
	}{
		{key: "no.such.key", value: "1"},
		{key: "pipeline.workers", value: "many"},
		{key: "pipeline.workers", value: "-1"},
		{key: "input.encoding", value: "ebcdic"},
		{key: "enrichment.latency_profile", value: "turbo"},
		{key: "enrichment.latency_thresholds", value: "100,50,10"},
		{key: "enrichment.latency_thresholds", value: "a,b,c"},
		{key: "enrichment.mobile_case_insensitive", value: "maybe"},
		{key: "output.sinks", value: "kafka"},
		{key: "alerts.rate_per_second", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.Error(t, svc.Set(tt.key, tt.value))
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()
	assert.Len(t, keys, len(settingSpecs))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "output.sinks")
}
