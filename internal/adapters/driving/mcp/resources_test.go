package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

func TestExtractRunID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid run URI", "f5lake://runs/run-123", "run-123"},
		{"invalid prefix", "file://runs/run-123", ""},
		{"nested path", "f5lake://runs/run-123/records", ""},
		{"list URI", "f5lake://runs", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRunID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func newResourceServer(t *testing.T, runs *mockRunService) *Server {
	t.Helper()
	ports := &Ports{Parse: &mockParseService{}}
	if runs != nil {
		ports.Runs = runs
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil run service returns empty list", func(t *testing.T) {
		server := newResourceServer(t, nil)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("f5lake://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns runs", func(t *testing.T) {
		runs := &mockRunService{runs: []domain.BatchRun{
			{ID: "run-1", Source: "access.log", Status: domain.RunSucceeded, Stats: domain.BatchStats{Total: 10}},
		}}
		server := newResourceServer(t, runs)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("f5lake://runs"))

		require.NoError(t, err)
		assert.Equal(t, runsLimit, runs.limit)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []domain.BatchRun
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "run-1", got[0].ID)
		assert.Equal(t, int64(10), got[0].Stats.Total)
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		server := newResourceServer(t, &mockRunService{})

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("f5lake://runs"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("service error", func(t *testing.T) {
		server := newResourceServer(t, &mockRunService{err: errors.New("db locked")})

		_, err := server.handleRunsResource(ctx, makeReadResourceRequest("f5lake://runs"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing runs")
	})
}

func TestServer_handleRunResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns run", func(t *testing.T) {
		server := newResourceServer(t, &mockRunService{run: &domain.BatchRun{ID: "run-1", Alerts: 3}})

		result, err := server.handleRunResource(ctx, makeReadResourceRequest("f5lake://runs/run-1"))

		require.NoError(t, err)
		var got domain.BatchRun
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, int64(3), got.Alerts)
	})

	t.Run("unknown run", func(t *testing.T) {
		server := newResourceServer(t, &mockRunService{})

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("f5lake://runs/missing"))

		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		server := newResourceServer(t, &mockRunService{run: &domain.BatchRun{ID: "run-1"}})

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("f5lake://runs/"))

		assert.Error(t, err)
	})

	t.Run("nil run service", func(t *testing.T) {
		server := newResourceServer(t, nil)

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("f5lake://runs/run-1"))

		assert.Error(t, err)
	})

	t.Run("service error", func(t *testing.T) {
		server := newResourceServer(t, &mockRunService{err: errors.New("db locked")})

		_, err := server.handleRunResource(ctx, makeReadResourceRequest("f5lake://runs/run-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting run")
	})
}

func TestServer_handleBreakdownResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns counts", func(t *testing.T) {
		server := newResourceServer(t, &mockRunService{breakdown: map[string]int64{"success": 8, "server_error": 2}})

		result, err := server.handleBreakdownResource(ctx, makeReadResourceRequest("f5lake://status-breakdown"))

		require.NoError(t, err)
		var got map[string]int64
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, int64(8), got["success"])
		assert.Equal(t, int64(2), got["server_error"])
	})

	t.Run("no run service", func(t *testing.T) {
		server := newResourceServer(t, nil)

		result, err := server.handleBreakdownResource(ctx, makeReadResourceRequest("f5lake://status-breakdown"))

		require.NoError(t, err)
		assert.Equal(t, "{}", result.Contents[0].Text)
	})
}
