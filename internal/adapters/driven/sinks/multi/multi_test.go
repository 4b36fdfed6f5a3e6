package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

type mockSink struct {
	name     string
	writeErr error
	closeErr error
	written  int
	closed   bool
}

func (m *mockSink) Name() string { return m.name }

func (m *mockSink) Write(_ context.Context, records []domain.EnrichedRecord) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written += len(records)
	return nil
}

func (m *mockSink) Close() error {
	m.closed = true
	return m.closeErr
}

func TestSink_FanOut(t *testing.T) {
	a := &mockSink{name: "a"}
	b := &mockSink{name: "b"}
	s := New(a, b)

	assert.Equal(t, "a+b", s.Name())
	assert.Equal(t, 2, s.Len())

	recs := make([]domain.EnrichedRecord, 3)
	require.NoError(t, s.Write(context.Background(), recs))
	assert.Equal(t, 3, a.written)
	assert.Equal(t, 3, b.written)

	require.NoError(t, s.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestSink_PartialFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	a := &mockSink{name: "a", writeErr: diskFull, closeErr: errors.New("busy")}
	b := &mockSink{name: "b"}
	s := New(a, b)

	err := s.Write(context.Background(), make([]domain.EnrichedRecord, 2))
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.Contains(t, err.Error(), "a: disk full")
	assert.Equal(t, 2, b.written)

	err = s.Close()
	assert.ErrorContains(t, err, "a: busy")
	assert.True(t, b.closed)
}

func TestSink_Empty(t *testing.T) {
	s := New()
	assert.Empty(t, s.Name())
	assert.NoError(t, s.Write(context.Background(), nil))
	assert.NoError(t, s.Close())
}
