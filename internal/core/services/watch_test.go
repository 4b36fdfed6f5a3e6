package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
)

func TestWatchService_Watch(t *testing.T) {
	conn := &mockConnector{source: "incoming/a.log", records: raws(structuredLine)}
	ingest := newIngestFixture(t, conn)

	w := &mockWatcher{locations: make(chan string, 1)}
	w.locations <- "incoming/a.log"

	var gotDir string
	svc := NewWatchService(ingest, func(dir string) driven.Watcher {
		gotDir = dir
		return w
	})

	var runs []*domain.BatchRun
	err := svc.Watch(context.Background(), "incoming", func(run *domain.BatchRun, err error) {
		require.NoError(t, err)
		runs = append(runs, run)
		close(w.locations)
	})
	require.NoError(t, err)

	assert.Equal(t, "incoming", gotDir)
	require.Len(t, runs, 1)
	assert.Equal(t, "incoming/a.log", runs[0].Source)
}

func TestWatchService_NoFactory(t *testing.T) {
	svc := NewWatchService(nil, nil)

	err := svc.Watch(context.Background(), "incoming", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
