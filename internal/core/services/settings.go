package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyWorkers            = "pipeline.workers"
	keyBatchSize          = "pipeline.batch_size"
	keyEncoding           = "input.encoding"
	keyChain              = "enrichment.chain"
	keyLatencyProfile     = "enrichment.latency_profile"
	keyLatencyThresholds  = "enrichment.latency_thresholds"
	keySlowThreshold      = "enrichment.slow_threshold_ms"
	keyMobilePreset       = "enrichment.mobile_preset"
	keyMobileTokens       = "enrichment.mobile_tokens"
	keyMobileInsensitive  = "enrichment.mobile_case_insensitive"
	keySinks              = "output.sinks"
	keyNDJSONPath         = "output.ndjson_path"
	keyNDJSONMaxBytes     = "output.ndjson_max_bytes"
	keyNATSURL            = "nats.url"
	keyNATSSubjectPrefix  = "nats.subject_prefix"
	keyWebhookURL         = "alerts.webhook_url"
	keyAlertRate          = "alerts.rate_per_second"
	keyLargeResponseBytes = "alerts.large_response_bytes"
	keyMetricsAddr        = "metrics.addr"
	keyDataDir            = "storage.data_dir"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
	kindIntList
)

// settingSpecs describes every supported key and how Set parses it.
var settingSpecs = map[string]struct {
	kind     settingKind
	validate func(string) error
}{
	keyWorkers:            {kind: kindInt},
	keyBatchSize:          {kind: kindInt},
	keyEncoding:           {kind: kindString, validate: domain.ValidateEncoding},
	keyChain:              {kind: kindList},
	keyLatencyProfile:     {kind: kindString, validate: validateLatencyProfile},
	keyLatencyThresholds:  {kind: kindIntList},
	keySlowThreshold:      {kind: kindInt},
	keyMobilePreset:       {kind: kindString, validate: validateMobilePreset},
	keyMobileTokens:       {kind: kindList},
	keyMobileInsensitive:  {kind: kindBool},
	keySinks:              {kind: kindList, validate: validateSinks},
	keyNDJSONPath:         {kind: kindString},
	keyNDJSONMaxBytes:     {kind: kindInt},
	keyNATSURL:            {kind: kindString},
	keyNATSSubjectPrefix:  {kind: kindString},
	keyWebhookURL:         {kind: kindString},
	keyAlertRate:          {kind: kindFloat},
	keyLargeResponseBytes: {kind: kindInt},
	keyMetricsAddr:        {kind: kindString},
	keyDataDir:            {kind: kindString},
}

func validateLatencyProfile(v string) error {
	_, err := domain.LatencyProfile(v)
	return err
}

func validateMobilePreset(v string) error {
	_, err := domain.MobileTokens(v)
	return err
}

func validateSinks(v string) error {
	_, err := domain.ParseSinkTypes(splitList(v))
	return err
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Pipeline: domain.PipelineSettings{
			Workers:   s.getInt(keyWorkers, d.Pipeline.Workers),
			BatchSize: s.getInt(keyBatchSize, d.Pipeline.BatchSize),
		},
		Input: domain.InputSettings{
			Encoding: s.getValid(keyEncoding, d.Input.Encoding),
		},
		Enrichment: domain.EnrichmentSettings{
			Chain:                 s.configStore.GetStringSlice(keyChain),
			LatencyProfile:        s.getValid(keyLatencyProfile, d.Enrichment.LatencyProfile),
			LatencyThresholds:     s.getInt64Slice(keyLatencyThresholds),
			SlowThresholdMs:       int64(s.getInt(keySlowThreshold, int(d.Enrichment.SlowThresholdMs))),
			MobilePreset:          s.getValid(keyMobilePreset, d.Enrichment.MobilePreset),
			MobileTokens:          s.configStore.GetStringSlice(keyMobileTokens),
			MobileCaseInsensitive: s.configStore.GetBool(keyMobileInsensitive),
		},
		Output: domain.OutputSettings{
			Sinks:             s.getSinks(d.Output.Sinks),
			NDJSONPath:        s.getString(keyNDJSONPath, d.Output.NDJSONPath),
			NDJSONMaxBytes:    int64(s.getInt(keyNDJSONMaxBytes, int(d.Output.NDJSONMaxBytes))),
			NATSURL:           s.getString(keyNATSURL, d.Output.NATSURL),
			NATSSubjectPrefix: s.getString(keyNATSSubjectPrefix, d.Output.NATSSubjectPrefix),
		},
		Alerts: domain.AlertSettings{
			WebhookURL:         s.configStore.GetString(keyWebhookURL),
			RatePerSecond:      s.getFloat(keyAlertRate, d.Alerts.RatePerSecond),
			LargeResponseBytes: int64(s.getInt(keyLargeResponseBytes, int(d.Alerts.LargeResponseBytes))),
		},
		MetricsAddr: s.configStore.GetString(keyMetricsAddr),
		DataDir:     s.configStore.GetString(keyDataDir),
	}

	return settings, nil
}

// Set parses value according to the key's type, validates it and stores it.
func (s *SettingsService) Set(key, value string) error {
	spec, ok := settingSpecs[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if spec.validate != nil {
		if err := spec.validate(value); err != nil {
			return err
		}
	}

	var typed any
	switch spec.kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case kindList:
		typed = splitList(value)
	case kindIntList:
		var nums []int64
		for _, part := range splitList(value) {
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s must be a list of integers", domain.ErrInvalidInput, key)
			}
			nums = append(nums, n)
		}
		if _, err := domain.LatencyBandsFromThresholds(nums); err != nil {
			return err
		}
		typed = nums
	default:
		typed = value
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every supported dotted key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingSpecs))
	for k := range settingSpecs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the configuration file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

// getValid returns the stored value when it passes the key's validator.
func (s *SettingsService) getValid(key, defaultVal string) string {
	v := s.configStore.GetString(key)
	if v == "" {
		return defaultVal
	}
	if spec := settingSpecs[key]; spec.validate != nil && spec.validate(v) != nil {
		return defaultVal
	}
	return v
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v := s.configStore.GetFloat(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getSinks(defaultVal []domain.SinkType) []domain.SinkType {
	names := s.configStore.GetStringSlice(keySinks)
	if len(names) == 0 {
		return defaultVal
	}
	sinks, err := domain.ParseSinkTypes(names)
	if err != nil {
		return defaultVal
	}
	return sinks
}

func (s *SettingsService) getInt64Slice(key string) []int64 {
	v, ok := s.configStore.Get(key)
	if !ok {
		return nil
	}
	var out []int64
	switch vals := v.(type) {
	case []int64:
		return vals
	case []int:
		for _, n := range vals {
			out = append(out, int64(n))
		}
	case []any:
		for _, item := range vals {
			switch n := item.(type) {
			case int64:
				out = append(out, n)
			case int:
				out = append(out, int64(n))
			case float64:
				out = append(out, int64(n))
			default:
				return nil
			}
		}
	}
	return out
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
