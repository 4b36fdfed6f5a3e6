// Package extractor turns raw F5 access-log records into FieldMaps.
//
// Extractor handles the positional flat-text grammar emitted by the load
// balancer's syslog template. Decoder handles structured (JSON) documents
// produced by pre-parsing agents.
package extractor

import (
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FieldExtractor = (*Extractor)(nil)

// Extractor parses flat-text lines with a single left-to-right scan.
// Each field is consumed once; a failed step rejects the whole line.
// It is stateless and safe for concurrent use.
type Extractor struct{}

// New creates a new flat-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract splits line into the 22 canonical fields.
//
// Bracketed values are returned without brackets. Quoted values keep their
// surrounding quotes; the normaliser strips them.
func (e *Extractor) Extract(line string) (domain.FieldMap, error) {
	sc := &scanner{src: strings.TrimSpace(line)}
	fields := domain.NewFieldMap()

	steps := []struct {
		reason string
		run    func() bool
	}{
		{"syslog timestamp", func() bool { return sc.syslogTimestamp(fields, domain.FieldTimestampSyslog) }},
		{"hostname", func() bool { return sc.sep() && sc.token(fields, domain.FieldHostname) }},
		{"external client ip", func() bool { return sc.sep() && sc.token(fields, domain.FieldIPExternalClient) }},
		{"internal backend ip", func() bool { return sc.sep() && sc.bracketed(fields, domain.FieldIPInternalBackend) }},
		{"authenticated user", func() bool { return sc.sep() && sc.dashOrQuoted(fields, domain.FieldAuthenticatedUser) }},
		{"identity", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldIdentity) }},
		{"origin timestamp", func() bool { return sc.sep() && sc.bracketed(fields, domain.FieldTimestampOrigin) }},
		{"request line", func() bool { return sc.sep() && sc.request(fields) }},
		{"response code", func() bool { return sc.sep() && sc.digits(fields, domain.FieldResponseCode) }},
		{"response size", func() bool { return sc.sep() && sc.digits(fields, domain.FieldResponseSize) }},
		{"referer", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldReferer) }},
		{"user agent", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldUserAgent) }},
		{"Time marker", func() bool { return sc.sep() && sc.literal("Time") }},
		{"response time", func() bool { return sc.sep() && sc.digits(fields, domain.FieldResponseTimeMs) }},
		{"Age marker", func() bool { return sc.sep() && sc.literal("Age") }},
		{"cache age", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldCacheAge) }},
		{"content type", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldContentType) }},
		{"reserved 1", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldReserved1) }},
		{"reserved 2", func() bool { return sc.sep() && sc.dashOrQuoted(fields, domain.FieldReserved2) }},
		{"origin environment", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldOriginEnvironment) }},
		{"pool environment", func() bool { return sc.sep() && sc.quoted(fields, domain.FieldPoolEnvironment) }},
		{"node environment", func() bool { return sc.sep() && sc.word(fields, domain.FieldNodeEnvironment) && sc.atEnd() }},
	}

	for _, step := range steps {
		if !step.run() {
			return nil, domain.NewExtractionError(step.reason, line)
		}
	}

	return fields, nil
}

// scanner walks the line once. Every method either consumes input and
// returns true, or leaves the position undefined and returns false.
type scanner struct {
	src string
	pos int
}

func (s *scanner) atEnd() bool {
	return s.pos == len(s.src)
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

// sep consumes one or more spaces or tabs.
func (s *scanner) sep() bool {
	start := s.pos
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// syslogTimestamp consumes "Mon D HH:MM:SS" or "Mon DD HH:MM:SS".
func (s *scanner) syslogTimestamp(fields domain.FieldMap, name string) bool {
	start := s.pos
	for i := 0; i < 3; i++ {
		if !isLetter(s.peek()) {
			return false
		}
		s.pos++
	}
	if !s.sep() {
		return false
	}
	if n := s.countDigits(); n < 1 || n > 2 {
		return false
	}
	if !s.sep() {
		return false
	}
	for _, c := range []byte("dd:dd:dd") {
		if c == 'd' {
			if !isDigit(s.peek()) {
				return false
			}
		} else if s.peek() != c {
			return false
		}
		s.pos++
	}
	fields.Set(name, s.src[start:s.pos])
	return true
}

// token consumes a run of non-space characters.
func (s *scanner) token(fields domain.FieldMap, name string) bool {
	start := s.pos
	for s.pos < len(s.src) && !isSpace(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return false
	}
	fields.Set(name, s.src[start:s.pos])
	return true
}

// word consumes a run of letters, digits and underscores.
func (s *scanner) word(fields domain.FieldMap, name string) bool {
	start := s.pos
	for s.pos < len(s.src) && isWordChar(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return false
	}
	fields.Set(name, s.src[start:s.pos])
	return true
}

// digits consumes an unsigned integer.
func (s *scanner) digits(fields domain.FieldMap, name string) bool {
	start := s.pos
	if s.countDigits() == 0 {
		return false
	}
	fields.Set(name, s.src[start:s.pos])
	return true
}

func (s *scanner) countDigits() int {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return s.pos - start
}

// literal consumes an exact keyword.
func (s *scanner) literal(word string) bool {
	if !strings.HasPrefix(s.src[s.pos:], word) {
		return false
	}
	s.pos += len(word)
	return true
}

// bracketed consumes "[value]" and stores value without brackets.
func (s *scanner) bracketed(fields domain.FieldMap, name string) bool {
	if s.peek() != '[' {
		return false
	}
	end := strings.IndexByte(s.src[s.pos+1:], ']')
	if end < 1 {
		return false
	}
	fields.Set(name, s.src[s.pos+1:s.pos+1+end])
	s.pos += end + 2
	return true
}

// quotedSpan returns the bounds of a double-quoted string at the cursor,
// quotes included.
func (s *scanner) quotedSpan() (int, int, bool) {
	if s.peek() != '"' {
		return 0, 0, false
	}
	end := strings.IndexByte(s.src[s.pos+1:], '"')
	if end < 0 {
		return 0, 0, false
	}
	return s.pos, s.pos + end + 2, true
}

// quoted consumes a double-quoted string and stores it with its quotes.
func (s *scanner) quoted(fields domain.FieldMap, name string) bool {
	start, end, ok := s.quotedSpan()
	if !ok {
		return false
	}
	fields.Set(name, s.src[start:end])
	s.pos = end
	return true
}

// dashOrQuoted consumes a bare "-" or a double-quoted string.
func (s *scanner) dashOrQuoted(fields domain.FieldMap, name string) bool {
	if s.peek() == '-' {
		s.pos++
		if s.pos < len(s.src) && !isSpace(s.src[s.pos]) {
			return false
		}
		fields.Set(name, "-")
		return true
	}
	return s.quoted(fields, name)
}

// request consumes `"METHOD resource HTTP/d.d"`.
// The resource may contain spaces; the method ends at the first space and
// the protocol starts after the last one.
func (s *scanner) request(fields domain.FieldMap) bool {
	start, end, ok := s.quotedSpan()
	if !ok {
		return false
	}
	inner := s.src[start+1 : end-1]

	first := strings.IndexByte(inner, ' ')
	last := strings.LastIndexByte(inner, ' ')
	if first < 1 || last <= first+1 {
		return false
	}

	method := inner[:first]
	for i := 0; i < len(method); i++ {
		if !isWordChar(method[i]) {
			return false
		}
	}

	protocol := inner[last+1:]
	if !isHTTPProtocol(protocol) {
		return false
	}

	fields.Set(domain.FieldMethod, method)
	fields.Set(domain.FieldResource, inner[first+1:last])
	fields.Set(domain.FieldProtocol, protocol)
	s.pos = end
	return true
}

// isHTTPProtocol matches HTTP/<digit>.<digit>.
func isHTTPProtocol(p string) bool {
	return len(p) == 8 &&
		strings.HasPrefix(p, "HTTP/") &&
		isDigit(p[5]) && p[6] == '.' && isDigit(p[7])
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isWordChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
