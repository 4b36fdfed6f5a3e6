package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
	"github.com/custodia-labs/f5lake/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// WatcherFactory creates a watcher for a directory.
type WatcherFactory func(dir string) driven.Watcher

// WatchService binds directory watchers to an IngestService.
type WatchService struct {
	ingest     *IngestService
	newWatcher WatcherFactory
}

// NewWatchService creates a watch service.
func NewWatchService(ingest *IngestService, newWatcher WatcherFactory) *WatchService {
	return &WatchService{ingest: ingest, newWatcher: newWatcher}
}

// Watch ingests each file that settles in dir until ctx is done.
func (s *WatchService) Watch(ctx context.Context, dir string, done func(*domain.BatchRun, error)) error {
	if s.newWatcher == nil {
		return fmt.Errorf("watch %s: watcher factory not configured", dir)
	}

	w := s.newWatcher(dir)
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("close watcher for %s: %v", dir, err)
		}
	}()

	logger.Info("watching %s for new log files", dir)
	return s.ingest.Watch(ctx, w, done)
}
