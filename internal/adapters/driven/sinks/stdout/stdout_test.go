package stdout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

func TestSink_Write(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf)
	assert.Equal(t, "stdout", s.Name())

	resource := "/search?q=<b>"
	rec := domain.NewEnrichedRecord(domain.NormalizedRecord{Resource: resource})
	require.NoError(t, s.Write(context.Background(), []domain.EnrichedRecord{rec, rec}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"resource":"/search?q=<b>"`)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write(context.Background(), []domain.EnrichedRecord{rec}), domain.ErrSinkClosed)
}
