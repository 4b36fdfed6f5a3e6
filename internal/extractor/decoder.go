package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.StructuredDecoder = (*Decoder)(nil)

// Decoder maps structured JSON documents onto the canonical fields.
// Legacy key names are accepted. A canonical key wins over its aliases,
// and aliases are tried in FieldKeys order.
// Unknown keys are ignored.
type Decoder struct{}

// NewDecoder creates a new structured decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses raw as a JSON object and returns a complete FieldMap.
// Keys absent from the document are null.
func (d *Decoder) Decode(raw string) (domain.FieldMap, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFormatUnknown, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not a JSON object", domain.ErrFormatUnknown)
	}

	fields := domain.NewFieldMap()
	for _, name := range domain.FieldNames {
		key, value, ok := lookup(doc, name)
		if !ok {
			continue
		}
		rendered, err := renderValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %w", domain.ErrFormatUnknown, key, err)
		}
		fields[name] = rendered
	}

	var missing []string
	for _, name := range domain.RequiredStructuredFields {
		if !present(doc, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing mandatory fields %s",
			domain.ErrFormatUnknown, strings.Join(missing, ", "))
	}

	return fields, nil
}

// lookup returns the first key of doc carrying name, in FieldKeys order.
func lookup(doc map[string]any, name string) (string, any, bool) {
	for _, key := range domain.FieldKeys(name) {
		if value, ok := doc[key]; ok {
			return key, value, true
		}
	}
	return "", nil, false
}

// present reports whether doc carries name or one of its aliases.
func present(doc map[string]any, name string) bool {
	_, _, ok := lookup(doc, name)
	return ok
}

// renderValue converts a decoded JSON value to its raw string form.
// Integral numbers are rendered without a fraction so that 200.0 parses as 200.
func renderValue(v any) (*string, error) {
	var s string
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		s = val
	case json.Number:
		s = renderNumber(val)
	case bool:
		s = strconv.FormatBool(val)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return nil, err
		}
		s = strings.TrimRight(buf.String(), "\n")
	}
	return &s, nil
}

func renderNumber(n json.Number) string {
	if _, err := n.Int64(); err == nil {
		return n.String()
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return n.String()
	}
	return strconv.FormatInt(int64(f), 10)
}
