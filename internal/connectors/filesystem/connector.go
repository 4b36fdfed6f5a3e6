package filesystem

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Type is the connector type identifier.
const Type = "filesystem"

// Stdin is the source location that reads standard input.
const Stdin = "-"

// Supported input encodings.
const (
	EncodingUTF8        = domain.EncodingUTF8
	EncodingISO88591    = domain.EncodingISO88591
	EncodingWindows1252 = domain.EncodingWindows1252
)

// DefaultMaxLineBytes bounds a single record.
const DefaultMaxLineBytes = 1024 * 1024

// ErrConnectorClosed is returned when reading from a closed connector.
var ErrConnectorClosed = errors.New("connector is closed")

// Option configures a Connector.
type Option func(*Connector)

// WithEncoding sets the input charset. Empty means utf-8.
func WithEncoding(name string) Option {
	return func(c *Connector) {
		c.encoding = normaliseEncoding(name)
	}
}

// WithStdin replaces os.Stdin as the reader for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(c *Connector) {
		c.stdin = r
	}
}

// WithMaxLineBytes sets the longest record. Longer lines are truncated.
func WithMaxLineBytes(n int) Option {
	return func(c *Connector) {
		if n > 0 {
			c.maxLineBytes = n
		}
	}
}

// Connector reads newline-delimited records from a file, every regular
// file of a directory (non-recursive, sorted by name) or stdin.
// Gzip input is detected by its magic bytes and decompressed.
type Connector struct {
	sourceID     string
	encoding     string
	stdin        io.Reader
	maxLineBytes int

	mu     sync.Mutex
	closed bool
}

// New creates a connector for the given location.
func New(sourceID string, opts ...Option) *Connector {
	c := &Connector{
		sourceID:     sourceID,
		encoding:     EncodingUTF8,
		stdin:        os.Stdin,
		maxLineBytes: DefaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns "filesystem".
func (c *Connector) Type() string {
	return Type
}

// SourceID returns the location this connector reads.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Encoding returns the configured input charset.
func (c *Connector) Encoding() string {
	return c.encoding
}

// Validate checks the source exists and the encoding is supported.
func (c *Connector) Validate(_ context.Context) error {
	if _, err := decoderFor(c.encoding); err != nil {
		return err
	}
	if c.sourceID == "" {
		return fmt.Errorf("%w: empty source", domain.ErrInvalidInput)
	}
	if c.sourceID == Stdin {
		return nil
	}

	info, err := os.Stat(c.sourceID)
	if err != nil {
		return fmt.Errorf("source path error: %w", err)
	}
	if info.IsDir() {
		return nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", domain.ErrInvalidInput, c.sourceID)
	}

	f, err := os.Open(c.sourceID)
	if err != nil {
		return fmt.Errorf("source not readable: %w", err)
	}
	return f.Close()
}

// Read streams every non-blank line of the source.
// Line numbers count blank lines so they match the file.
func (c *Connector) Read(ctx context.Context) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error, 1)

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		errs <- ErrConnectorClosed
		close(records)
		close(errs)
		return records, errs
	}

	go func() {
		defer close(records)
		defer close(errs)

		if err := c.readAll(ctx, records); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			errs <- err
		}
	}()

	return records, errs
}

// Close marks the connector closed. Safe to call multiple times.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Connector) readAll(ctx context.Context, out chan<- domain.RawRecord) error {
	if c.sourceID == Stdin {
		return c.readStream(ctx, "stdin", c.stdin, out)
	}

	files, err := c.files()
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := c.readFile(ctx, path, out); err != nil {
			return err
		}
	}
	return nil
}

// files lists the regular files to read in order.
func (c *Connector) files() ([]string, error) {
	info, err := os.Stat(c.sourceID)
	if err != nil {
		return nil, fmt.Errorf("source path error: %w", err)
	}
	if !info.IsDir() {
		return []string{c.sourceID}, nil
	}

	entries, err := os.ReadDir(c.sourceID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.sourceID, err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isHidden(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(c.sourceID, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (c *Connector) readFile(ctx context.Context, path string, out chan<- domain.RawRecord) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return c.readStream(ctx, path, f, out)
}

func (c *Connector) readStream(ctx context.Context, source string, r io.Reader, out chan<- domain.RawRecord) error {
	r, closeFn, err := c.wrap(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	defer closeFn()

	br := bufio.NewReaderSize(r, 64*1024)

	var line int64
	for {
		text, truncated, err := readLine(br, c.maxLineBytes)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read %s line %d: %w", source, line+1, err)
		}
		if errors.Is(err, io.EOF) && text == "" {
			return nil
		}

		line++
		if truncated {
			logger.Warn("%s line %d exceeds %d bytes, truncated", source, line, c.maxLineBytes)
		}
		if strings.TrimSpace(text) != "" {
			select {
			case out <- domain.RawRecord{Source: source, Line: line, Payload: text}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err != nil {
			return nil
		}
	}
}

// readLine returns the next line without its terminator. Lines longer
// than limit are cut to limit bytes and the remainder is discarded.
// err is io.EOF for the final line when it has no newline.
func readLine(br *bufio.Reader, limit int) (string, bool, error) {
	var buf []byte
	truncated := false
	for {
		chunk, err := br.ReadSlice('\n')
		if err == nil {
			chunk = chunk[:len(chunk)-1]
		}
		if room := limit - len(buf); len(chunk) > room {
			buf = append(buf, chunk[:room]...)
			truncated = true
		} else {
			buf = append(buf, chunk...)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		buf = bytes.TrimSuffix(buf, []byte{'\r'})
		return string(buf), truncated, err
	}
}

// wrap layers gzip and charset decoding over r.
func (c *Connector) wrap(r io.Reader) (io.Reader, func(), error) {
	closeFn := func() {}

	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, closeFn, err
	}
	r = br
	if isGzip(magic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, closeFn, fmt.Errorf("gzip: %w", err)
		}
		r = zr
		closeFn = func() { _ = zr.Close() }
	}

	dec, err := decoderFor(c.encoding)
	if err != nil {
		return nil, closeFn, err
	}
	if dec != nil {
		r = dec.NewDecoder().Reader(r)
	}
	return r, closeFn, nil
}

func isGzip(magic []byte) bool {
	return len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b
}

// decoderFor returns the charmap for a single-byte encoding.
// UTF-8 input needs no decoder and yields nil.
func decoderFor(name string) (*charmap.Charmap, error) {
	switch normaliseEncoding(name) {
	case EncodingUTF8:
		return nil, nil
	case EncodingISO88591:
		return charmap.ISO8859_1, nil
	case EncodingWindows1252:
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("%w: encoding %q", domain.ErrInvalidInput, name)
	}
}

func normaliseEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return EncodingISO88591
	case "windows-1252", "cp1252":
		return EncodingWindows1252
	default:
		return strings.ToLower(strings.TrimSpace(name))
	}
}

// isHidden reports whether a file name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
