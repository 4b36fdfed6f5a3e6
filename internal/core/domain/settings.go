package domain

import "fmt"

const unknownDescription = "Unknown"

// SinkType identifies an output destination for enriched records.
type SinkType string

// Available sinks.
const (
	// SinkNDJSON appends newline-delimited JSON to a local file.
	SinkNDJSON SinkType = "ndjson"

	// SinkStdout writes newline-delimited JSON to standard output.
	SinkStdout SinkType = "stdout"

	// SinkSQLite stores records in the local SQLite database.
	SinkSQLite SinkType = "sqlite"

	// SinkNATS publishes records to a NATS subject per partition.
	SinkNATS SinkType = "nats"
)

// IsValid returns true if the sink type is recognised.
func (s SinkType) IsValid() bool {
	switch s {
	case SinkNDJSON, SinkStdout, SinkSQLite, SinkNATS:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SinkType) String() string {
	return string(s)
}

// Description returns a human-readable description of the sink.
func (s SinkType) Description() string {
	switch s {
	case SinkNDJSON:
		return "NDJSON file (rotating)"
	case SinkStdout:
		return "NDJSON on standard output"
	case SinkSQLite:
		return "Local SQLite records table"
	case SinkNATS:
		return "NATS subject per hour partition"
	default:
		return unknownDescription
	}
}

// AllSinkTypes returns all available sinks.
func AllSinkTypes() []SinkType {
	return []SinkType{SinkNDJSON, SinkStdout, SinkSQLite, SinkNATS}
}

// ParseSinkTypes validates a list of sink names.
func ParseSinkTypes(names []string) ([]SinkType, error) {
	sinks := make([]SinkType, 0, len(names))
	for _, name := range names {
		s := SinkType(name)
		if !s.IsValid() {
			return nil, fmt.Errorf("%w: sink %q", ErrUnsupportedType, name)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

// PipelineSettings controls batch execution.
type PipelineSettings struct {
	// Workers is the number of record workers. Zero means one per CPU.
	Workers int

	// BatchSize is the number of records handed to sinks per write.
	BatchSize int
}

// InputSettings controls connector decoding.
type InputSettings struct {
	// Encoding is the character set of input files.
	Encoding string
}

// EnrichmentSettings selects the enrichment tables.
type EnrichmentSettings struct {
	// Chain is the ordered enricher list. Empty means the default chain.
	Chain []string

	LatencyProfile string

	// LatencyThresholds overrides the profile with three ascending upper
	// bounds for fast, normal and slow.
	LatencyThresholds []int64

	SlowThresholdMs       int64
	MobilePreset          string
	MobileTokens          []string
	MobileCaseInsensitive bool
}

// OutputSettings configures record sinks.
type OutputSettings struct {
	// Sinks are the enabled destinations.
	Sinks []SinkType

	// NDJSONPath is the file written by the ndjson sink.
	NDJSONPath string

	// NDJSONMaxBytes triggers rotation. Zero disables rotation.
	NDJSONMaxBytes int64

	// NATSURL is the server the nats sink connects to.
	NATSURL string

	// NATSSubjectPrefix prefixes every published subject.
	NATSSubjectPrefix string
}

// AlertSettings configures alert evaluation and delivery.
type AlertSettings struct {
	// WebhookURL receives alert batches. Empty disables delivery.
	WebhookURL string

	// RatePerSecond caps webhook requests.
	RatePerSecond float64

	// LargeResponseBytes marks responses above it as alertable.
	LargeResponseBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Pipeline   PipelineSettings
	Input      InputSettings
	Enrichment EnrichmentSettings
	Output     OutputSettings
	Alerts     AlertSettings

	// MetricsAddr serves /metrics when set (e.g. ":9102").
	MetricsAddr string

	// DataDir holds the database. Empty means the config directory.
	DataDir string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Pipeline: PipelineSettings{
			Workers:   0,
			BatchSize: 500,
		},
		Input: InputSettings{
			Encoding: EncodingUTF8,
		},
		Enrichment: EnrichmentSettings{
			LatencyProfile:  LatencyProfileStandard,
			SlowThresholdMs: DefaultSlowThresholdMs,
			MobilePreset:    MobilePresetDefault,
		},
		Output: OutputSettings{
			Sinks:             []SinkType{SinkSQLite},
			NDJSONPath:        "f5lake-records.ndjson",
			NDJSONMaxBytes:    128 * 1024 * 1024,
			NATSURL:           "nats://127.0.0.1:4222",
			NATSSubjectPrefix: "f5lake.records",
		},
		Alerts: AlertSettings{
			RatePerSecond:      1,
			LargeResponseBytes: DefaultLargeResponseBytes,
		},
	}
}

// EnrichmentConfig resolves the settings into enrichment tables.
func (s EnrichmentSettings) EnrichmentConfig(engineVersion string) (EnrichmentConfig, error) {
	cfg := DefaultEnrichmentConfig()

	bands, err := LatencyProfile(s.LatencyProfile)
	if err != nil {
		return EnrichmentConfig{}, err
	}
	if len(s.LatencyThresholds) > 0 {
		bands, err = LatencyBandsFromThresholds(s.LatencyThresholds)
		if err != nil {
			return EnrichmentConfig{}, err
		}
	}
	cfg.LatencyBands = bands

	if s.SlowThresholdMs > 0 {
		cfg.SlowThresholdMs = s.SlowThresholdMs
	}

	if len(s.MobileTokens) > 0 {
		cfg.MobileTokens = s.MobileTokens
	} else {
		tokens, err := MobileTokens(s.MobilePreset)
		if err != nil {
			return EnrichmentConfig{}, err
		}
		cfg.MobileTokens = tokens
	}
	cfg.MobileCaseInsensitive = s.MobileCaseInsensitive

	if engineVersion != "" {
		cfg.EngineVersion = engineVersion
	}
	return cfg, nil
}

// PipelineConfig returns the enrichment chain selected by the settings.
func (s EnrichmentSettings) PipelineConfig() PipelineConfig {
	cfg := DefaultPipelineConfig()
	if len(s.Chain) > 0 {
		cfg.Enrichers = s.Chain
	}
	return cfg
}

// PipelineConfig holds the enrichment chain configuration.
// Uses generic map-based config for extensibility - new enrichers can be added
// without modifying this struct.
type PipelineConfig struct {
	// Enrichers is the ordered list of enricher names to run.
	Enrichers []string

	// EnricherConfigs holds per-enricher configuration as generic maps.
	// Key is enricher name, value is enricher-specific config.
	EnricherConfigs map[string]map[string]any
}

// GetEnricherConfig returns config for a specific enricher, or nil if not set.
func (c *PipelineConfig) GetEnricherConfig(name string) map[string]any {
	if c.EnricherConfigs == nil {
		return nil
	}
	return c.EnricherConfigs[name]
}

// DefaultPipelineConfig returns the default enrichment chain.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Enrichers: []string{
			"timestamps", "status", "latency", "mobile", "content", "cache", "metadata",
		},
	}
}

// Supported input encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingISO88591    = "iso-8859-1"
	EncodingWindows1252 = "windows-1252"
)

// SupportedEncodings lists the accepted input character sets.
func SupportedEncodings() []string {
	return []string{EncodingUTF8, EncodingISO88591, EncodingWindows1252}
}

// ValidateEncoding returns ErrUnsupportedType for unknown encodings.
// The empty string means utf-8.
func ValidateEncoding(name string) error {
	if name == "" {
		return nil
	}
	for _, e := range SupportedEncodings() {
		if e == name {
			return nil
		}
	}
	return fmt.Errorf("%w: encoding %q", ErrUnsupportedType, name)
}
