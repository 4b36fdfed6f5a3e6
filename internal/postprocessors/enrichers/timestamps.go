package enrichers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

var _ driven.Enricher = (*Timestamps)(nil)

// OutputLayout is the format of parsed_timestamp_syslog and
// parsed_timestamp_origin.
const OutputLayout = "2006-01-02T15:04:05"

const (
	syslogLayout = "2006 Jan 2 15:04:05"
	originLayout = "02/Jan/2006:15:04:05"
)

// Timestamps parses the syslog and origin timestamps.
// The syslog form has no year; the processing clock's year is used.
type Timestamps struct {
	now func() time.Time
}

// NewTimestamps creates a timestamp enricher using now as the year source.
func NewTimestamps(now func() time.Time) *Timestamps {
	if now == nil {
		now = time.Now
	}
	return &Timestamps{now: now}
}

// Name returns the enricher name.
func (e *Timestamps) Name() string {
	return "timestamps"
}

// Enrich sets the parsed timestamps and the calendar partition.
func (e *Timestamps) Enrich(_ context.Context, rec *domain.EnrichedRecord) {
	if t, ok := ParseSyslog(rec.TimestampSyslog, e.now().Year()); ok {
		s := t.Format(OutputLayout)
		year, month, day, hour := t.Year(), int(t.Month()), t.Day(), t.Hour()
		rec.ParsedTimestampSyslog = &s
		rec.Year, rec.Month, rec.Day, rec.Hour = &year, &month, &day, &hour
	} else {
		rec.ParsedTimestampSyslog = nil
		rec.Year, rec.Month, rec.Day, rec.Hour = nil, nil, nil, nil
	}

	if t, ok := ParseOrigin(rec.TimestampOrigin); ok {
		s := t.Format(OutputLayout)
		rec.ParsedTimestampOrigin = &s
	} else {
		rec.ParsedTimestampOrigin = nil
	}
}

// ParseSyslog parses "Mon D HH:MM:SS" in the given year. Runs of
// whitespace are treated as one separator.
func ParseSyslog(value string, year int) (time.Time, bool) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return time.Time{}, false
	}
	t, err := time.Parse(syslogLayout, strconv.Itoa(year)+" "+strings.Join(fields, " "))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseOrigin parses "DD/Mon/YYYY:HH:MM:SS", ignoring anything after the
// first space (the timezone offset).
func ParseOrigin(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	t, err := time.Parse(originLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
