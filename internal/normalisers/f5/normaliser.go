// Package f5 normalises F5 access-log FieldMaps.
package f5

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser converts raw F5 fields into typed values.
// It is stateless and safe for concurrent use.
type Normaliser struct{}

// New creates a new F5 normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise resolves a complete FieldMap.
//
// Numeric fields that do not parse as integers become null. Nullable string
// fields lose one layer of surrounding quotes and become null when the
// remainder is empty or "-". Pass-through fields are copied verbatim, even
// when empty.
func (n *Normaliser) Normalise(fields domain.FieldMap) (domain.NormalizedRecord, error) {
	if missing := fields.Missing(); len(missing) > 0 {
		return domain.NormalizedRecord{}, fmt.Errorf("%w: missing %s",
			domain.ErrContractViolation, strings.Join(missing, ", "))
	}

	return domain.NormalizedRecord{
		TimestampSyslog:   passThrough(fields, domain.FieldTimestampSyslog),
		Hostname:          passThrough(fields, domain.FieldHostname),
		IPExternalClient:  passThrough(fields, domain.FieldIPExternalClient),
		IPInternalBackend: passThrough(fields, domain.FieldIPInternalBackend),
		AuthenticatedUser: nullable(fields, domain.FieldAuthenticatedUser),
		Identity:          nullable(fields, domain.FieldIdentity),
		TimestampOrigin:   passThrough(fields, domain.FieldTimestampOrigin),
		Method:            passThrough(fields, domain.FieldMethod),
		Resource:          passThrough(fields, domain.FieldResource),
		Protocol:          passThrough(fields, domain.FieldProtocol),
		ResponseCode:      integer(fields, domain.FieldResponseCode),
		ResponseSize:      integer(fields, domain.FieldResponseSize),
		Referer:           nullable(fields, domain.FieldReferer),
		UserAgent:         nullable(fields, domain.FieldUserAgent),
		ResponseTimeMs:    integer(fields, domain.FieldResponseTimeMs),
		CacheAge:          nullable(fields, domain.FieldCacheAge),
		ContentType:       nullable(fields, domain.FieldContentType),
		Reserved1:         nullable(fields, domain.FieldReserved1),
		Reserved2:         nullable(fields, domain.FieldReserved2),
		OriginEnvironment: nullable(fields, domain.FieldOriginEnvironment),
		PoolEnvironment:   nullable(fields, domain.FieldPoolEnvironment),
		NodeEnvironment:   passThrough(fields, domain.FieldNodeEnvironment),
	}, nil
}

// passThrough returns the raw value, or "" for null.
func passThrough(fields domain.FieldMap, name string) string {
	v, _ := fields.Value(name)
	return v
}

// nullable strips one layer of quotes and maps placeholders to null.
func nullable(fields domain.FieldMap, name string) *string {
	v, ok := fields.Value(name)
	if !ok {
		return nil
	}
	v = Unquote(v)
	if IsPlaceholder(v) {
		return nil
	}
	return &v
}

// integer parses a base-10 integer, or returns null.
func integer(fields domain.FieldMap, name string) *int64 {
	v, ok := fields.Value(name)
	if !ok {
		return nil
	}
	i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return nil
	}
	return &i
}

// Unquote removes one pair of surrounding double quotes, if present.
func Unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// IsPlaceholder reports whether an unquoted value means "no value".
func IsPlaceholder(v string) bool {
	return v == "" || v == "-" || v == `""`
}
