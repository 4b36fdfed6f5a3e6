// Package ndjson writes enriched records as newline-delimited JSON files.
package ndjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.RecordSink = (*Sink)(nil)

const (
	defaultBufSize = 64 * 1024

	// maxBackups is the number of rotated files kept (path.1 .. path.N).
	maxBackups = 9
)

// Option configures a Sink.
type Option func(*Sink)

// WithMaxBytes sets the file size at which rotation triggers.
// 0 disables rotation.
func WithMaxBytes(n int64) Option {
	return func(s *Sink) { s.maxBytes = n }
}

// WithBufSize sets the write buffer size.
func WithBufSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

// Sink appends one JSON line per record to a file.
// Rotation renames the full file to path.1, shifting older backups up.
type Sink struct {
	mu       sync.Mutex
	path     string
	f        *os.File
	w        *bufio.Writer
	written  int64
	maxBytes int64
	bufSize  int
	closed   bool
}

// New opens path for appending, creating parent directories as needed.
func New(path string, opts ...Option) (*Sink, error) {
	s := &Sink{
		path:    path,
		bufSize: defaultBufSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("ndjson: create %s: %w", dir, err)
		}
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return string(domain.SinkNDJSON)
}

// Path returns the active file path.
func (s *Sink) Path() string {
	return s.path
}

// Write appends records and flushes the buffer once per call.
func (s *Sink) Write(_ context.Context, records []domain.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSinkClosed
	}

	for i := range records {
		line, err := json.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("ndjson: marshal: %w", err)
		}
		line = append(line, '\n')

		if s.maxBytes > 0 && s.written > 0 && s.written+int64(len(line)) > s.maxBytes {
			if err := s.rotate(); err != nil {
				return fmt.Errorf("ndjson: rotate: %w", err)
			}
		}

		n, err := s.w.Write(line)
		s.written += int64(n)
		if err != nil {
			return fmt.Errorf("ndjson: write: %w", err)
		}
	}

	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("ndjson: flush: %w", err)
	}
	return nil
}

// Close flushes and closes the file. Further writes fail with ErrSinkClosed.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return fmt.Errorf("ndjson: flush: %w", err)
	}
	return s.f.Close()
}

func (s *Sink) open() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("ndjson: open %s: %w", s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("ndjson: stat %s: %w", s.path, err)
	}
	s.f = f
	s.w = bufio.NewWriterSize(f, s.bufSize)
	s.written = info.Size()
	return nil
}

// rotate closes the current file, shifts backups and reopens path.
func (s *Sink) rotate() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if err := s.f.Close(); err != nil {
		return err
	}

	// The oldest backup falls off the end.
	for i := maxBackups - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", s.path, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, fmt.Sprintf("%s.%d", s.path, i+1)); err != nil {
			return err
		}
	}
	if err := os.Rename(s.path, s.path+".1"); err != nil {
		return err
	}

	return s.open()
}
