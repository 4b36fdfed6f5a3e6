package domain

// RawRecord is one opaque log record as delivered by a connector.
// It is the connector's output before format detection.
type RawRecord struct {
	// Source identifies where the record came from (file path, "stdin").
	Source string

	// Line is the 1-based position of the record within Source.
	Line int64

	// Payload is the record text.
	Payload string
}

// DetectedFormat classifies the wire format of a RawRecord.
type DetectedFormat string

const (
	// FormatStructured is a self-describing key/value document (JSON object).
	FormatStructured DetectedFormat = "structured"

	// FormatFlatText is a positional syslog-prefixed F5 access-log line.
	FormatFlatText DetectedFormat = "flat_text"

	// FormatUnknown is anything else.
	FormatUnknown DetectedFormat = "unknown"
)

// Canonical field names, in grammar order.
const (
	FieldTimestampSyslog   = "timestamp_syslog"
	FieldHostname          = "hostname"
	FieldIPExternalClient  = "ip_external_client"
	FieldIPInternalBackend = "ip_internal_backend"
	FieldAuthenticatedUser = "authenticated_user"
	FieldIdentity          = "identity"
	FieldTimestampOrigin   = "timestamp_origin"
	FieldMethod            = "method"
	FieldResource          = "resource"
	FieldProtocol          = "protocol"
	FieldResponseCode      = "response_code"
	FieldResponseSize      = "response_size"
	FieldReferer           = "referer"
	FieldUserAgent         = "user_agent"
	FieldResponseTimeMs    = "response_time_ms"
	FieldCacheAge          = "cache_age"
	FieldContentType       = "content_type"
	FieldReserved1         = "reserved_1"
	FieldReserved2         = "reserved_2"
	FieldOriginEnvironment = "origin_environment"
	FieldPoolEnvironment   = "pool_environment"
	FieldNodeEnvironment   = "node_environment"
)

// FieldNames lists the 22 canonical field names in grammar order.
var FieldNames = []string{
	FieldTimestampSyslog,
	FieldHostname,
	FieldIPExternalClient,
	FieldIPInternalBackend,
	FieldAuthenticatedUser,
	FieldIdentity,
	FieldTimestampOrigin,
	FieldMethod,
	FieldResource,
	FieldProtocol,
	FieldResponseCode,
	FieldResponseSize,
	FieldReferer,
	FieldUserAgent,
	FieldResponseTimeMs,
	FieldCacheAge,
	FieldContentType,
	FieldReserved1,
	FieldReserved2,
	FieldOriginEnvironment,
	FieldPoolEnvironment,
	FieldNodeEnvironment,
}

// RequiredStructuredFields must be present in a structured document for it
// to be accepted.
var RequiredStructuredFields = []string{
	FieldTimestampSyslog,
	FieldHostname,
	FieldIPExternalClient,
}

// FieldMap maps canonical field names to raw string values.
// A nil value means the field was explicitly null in the source.
// A complete FieldMap carries every name in FieldNames.
type FieldMap map[string]*string

// NewFieldMap creates a FieldMap with every canonical key set to null.
func NewFieldMap() FieldMap {
	m := make(FieldMap, len(FieldNames))
	for _, name := range FieldNames {
		m[name] = nil
	}
	return m
}

// Set stores a non-null value.
func (m FieldMap) Set(name, value string) {
	m[name] = &value
}

// Value returns the value of a field and whether it is non-null.
func (m FieldMap) Value(name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Missing returns the canonical names absent from the map, in grammar order.
func (m FieldMap) Missing() []string {
	var missing []string
	for _, name := range FieldNames {
		if _, ok := m[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// NormalizedRecord holds the 22 fields with placeholders resolved to null
// and numeric fields parsed.
type NormalizedRecord struct {
	TimestampSyslog   string  `json:"timestamp_syslog"`
	Hostname          string  `json:"hostname"`
	IPExternalClient  string  `json:"ip_external_client"`
	IPInternalBackend string  `json:"ip_internal_backend"`
	AuthenticatedUser *string `json:"authenticated_user"`
	Identity          *string `json:"identity"`
	TimestampOrigin   string  `json:"timestamp_origin"`
	Method            string  `json:"method"`
	Resource          string  `json:"resource"`
	Protocol          string  `json:"protocol"`
	ResponseCode      *int64  `json:"response_code"`
	ResponseSize      *int64  `json:"response_size"`
	Referer           *string `json:"referer"`
	UserAgent         *string `json:"user_agent"`
	ResponseTimeMs    *int64  `json:"response_time_ms"`
	CacheAge          *string `json:"cache_age"`
	ContentType       *string `json:"content_type"`
	Reserved1         *string `json:"reserved_1"`
	Reserved2         *string `json:"reserved_2"`
	OriginEnvironment *string `json:"origin_environment"`
	PoolEnvironment   *string `json:"pool_environment"`
	NodeEnvironment   string  `json:"node_environment"`
}

// Status categories.
const (
	StatusSuccess     = "success"
	StatusRedirect    = "redirect"
	StatusClientError = "client_error"
	StatusServerError = "server_error"
	StatusUnknown     = "unknown"
)

// Response time categories.
const (
	LatencyFast     = "fast"
	LatencyNormal   = "normal"
	LatencySlow     = "slow"
	LatencyVerySlow = "very_slow"
	LatencyUnknown  = "unknown"
)

// Content categories.
const (
	ContentJS       = "js"
	ContentCSS      = "css"
	ContentImage    = "image"
	ContentHTML     = "html"
	ContentAPI      = "api"
	ContentFont     = "font"
	ContentVideo    = "video"
	ContentAudio    = "audio"
	ContentDocument = "document"
	ContentOther    = "other"
	ContentUnknown  = "unknown"
)

// EnrichedRecord is a NormalizedRecord plus derived analytic dimensions.
// It is built once by the enrichment chain and not mutated afterwards.
type EnrichedRecord struct {
	NormalizedRecord

	ParsedTimestampSyslog *string `json:"parsed_timestamp_syslog"`
	Year                  *int    `json:"year"`
	Month                 *int    `json:"month"`
	Day                   *int    `json:"day"`
	Hour                  *int    `json:"hour"`
	ParsedTimestampOrigin *string `json:"parsed_timestamp_origin"`

	IsError              bool   `json:"is_error"`
	StatusCategory       string `json:"status_category"`
	IsSlow               bool   `json:"is_slow"`
	ResponseTimeCategory string `json:"response_time_category"`
	IsMobile             bool   `json:"is_mobile"`
	ContentCategory      string `json:"content_category"`
	CacheHit             bool   `json:"cache_hit"`

	ProcessingTimestamp string `json:"processing_timestamp"`
	ProcessingDate      string `json:"processing_date"`
	EngineVersion       string `json:"engine_version"`
}

// DerivedFieldNames lists the 16 keys added by enrichment.
var DerivedFieldNames = []string{
	"parsed_timestamp_syslog",
	"year",
	"month",
	"day",
	"hour",
	"parsed_timestamp_origin",
	"is_error",
	"status_category",
	"is_slow",
	"response_time_category",
	"is_mobile",
	"content_category",
	"cache_hit",
	"processing_timestamp",
	"processing_date",
	"engine_version",
}

// NewEnrichedRecord wraps a normalised record with every derived
// dimension at its fallback value.
func NewEnrichedRecord(rec NormalizedRecord) EnrichedRecord {
	return EnrichedRecord{
		NormalizedRecord:     rec,
		StatusCategory:       StatusUnknown,
		ResponseTimeCategory: LatencyUnknown,
		ContentCategory:      ContentUnknown,
	}
}

// PartitionKey returns the (year, month, day, hour) partition of the record.
// Unknown components are reported as -1.
func (r *EnrichedRecord) PartitionKey() (year, month, day, hour int) {
	deref := func(p *int) int {
		if p == nil {
			return -1
		}
		return *p
	}
	return deref(r.Year), deref(r.Month), deref(r.Day), deref(r.Hour)
}
