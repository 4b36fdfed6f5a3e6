package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrBatchInProgress", ErrBatchInProgress},
		{"ErrFormatUnknown", ErrFormatUnknown},
		{"ErrExtractionMismatch", ErrExtractionMismatch},
		{"ErrContractViolation", ErrContractViolation},
		{"ErrSinkClosed", ErrSinkClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrFormatUnknown(t *testing.T) {
	assert.Equal(t, "format unknown", ErrFormatUnknown.Error())
	assert.False(t, errors.Is(ErrFormatUnknown, ErrExtractionMismatch))
}

func TestExtractionError(t *testing.T) {
	t.Run("unwraps to ErrExtractionMismatch", func(t *testing.T) {
		err := NewExtractionError("missing Time marker", "Aug  8 03:33:33 host")
		assert.True(t, errors.Is(err, ErrExtractionMismatch))

		wrapped := fmt.Errorf("record 12: %w", err)
		assert.True(t, errors.Is(wrapped, ErrExtractionMismatch))

		var ee *ExtractionError
		assert.True(t, errors.As(wrapped, &ee))
		assert.Equal(t, "missing Time marker", ee.Reason)
	})

	t.Run("truncates long samples", func(t *testing.T) {
		line := strings.Repeat("x", 300)
		err := NewExtractionError("bad", line)
		assert.Len(t, err.Sample, maxSampleLen+3)
		assert.True(t, strings.HasSuffix(err.Sample, "..."))
	})

	t.Run("message names the reason", func(t *testing.T) {
		err := NewExtractionError("node environment", "abc")
		assert.Contains(t, err.Error(), "extraction mismatch")
		assert.Contains(t, err.Error(), "node environment")
	})
}
