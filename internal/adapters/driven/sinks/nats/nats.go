// Package nats publishes enriched records to NATS, one message per record.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.RecordSink = (*Sink)(nil)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "f5lake.records"

// DefaultFlushTimeout bounds a flush when the caller's context has no deadline.
const DefaultFlushTimeout = 10 * time.Second

// publisher is the subset of *nats.Conn the sink uses.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// Sink publishes each record on <prefix>.<yyyy>.<mm>.<dd>.<hh>, or
// <prefix>.unknown when the record has no syslog partition.
type Sink struct {
	mu           sync.Mutex
	conn         publisher
	prefix       string
	flushTimeout time.Duration
	closed       bool
}

// Connect dials url and returns a sink publishing under prefix.
func Connect(url, prefix string) (*Sink, error) {
	conn, err := nats.Connect(url,
		nats.Name("f5lake"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", url, err)
	}
	return newSink(conn, prefix), nil
}

func newSink(conn publisher, prefix string) *Sink {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Sink{conn: conn, prefix: prefix, flushTimeout: DefaultFlushTimeout}
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return string(domain.SinkNATS)
}

// Subject returns the subject a record is published on.
func (s *Sink) Subject(rec *domain.EnrichedRecord) string {
	year, month, day, hour := rec.PartitionKey()
	if year < 0 || month < 0 || day < 0 || hour < 0 {
		return s.prefix + ".unknown"
	}
	return fmt.Sprintf("%s.%04d.%02d.%02d.%02d", s.prefix, year, month, day, hour)
}

// Write publishes records and waits for the server to acknowledge the flush.
func (s *Sink) Write(ctx context.Context, records []domain.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSinkClosed
	}
	if len(records) == 0 {
		return nil
	}

	for i := range records {
		data, err := json.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("nats: marshal: %w", err)
		}
		subject := s.Subject(&records[i])
		if err := s.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("nats: publish %s: %w", subject, err)
		}
	}

	// FlushWithContext rejects contexts without a deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.flushTimeout)
		defer cancel()
	}
	if err := s.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats: flush: %w", err)
	}
	return nil
}

// Close drains the connection.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Drain()
}
