// Package stdout writes enriched records as NDJSON to standard output.
package stdout

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.RecordSink = (*Sink)(nil)

// Sink encodes one record per line.
type Sink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	enc    *json.Encoder
	closed bool
}

// New creates a sink on os.Stdout.
func New() *Sink {
	return NewWriter(os.Stdout)
}

// NewWriter creates a sink on w.
func NewWriter(w io.Writer) *Sink {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &Sink{w: bw, enc: enc}
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return string(domain.SinkStdout)
}

// Write encodes records and flushes.
func (s *Sink) Write(_ context.Context, records []domain.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSinkClosed
	}
	for i := range records {
		if err := s.enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("stdout: encode: %w", err)
		}
	}
	return s.w.Flush()
}

// Close flushes pending output. The underlying writer is left open.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return s.w.Flush()
}
