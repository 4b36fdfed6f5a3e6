package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/f5lake/internal/adapters/driven/alerting/webhook"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/config/file"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/metrics"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/sinks/multi"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/sinks/nats"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/sinks/ndjson"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/sinks/stdout"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/f5lake/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/cli"
	"github.com/custodia-labs/f5lake/internal/connectors/filesystem"
	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driven"
	"github.com/custodia-labs/f5lake/internal/core/services"
	"github.com/custodia-labs/f5lake/internal/detector"
	"github.com/custodia-labs/f5lake/internal/extractor"
	"github.com/custodia-labs/f5lake/internal/logger"
	"github.com/custodia-labs/f5lake/internal/normalisers/f5"
	"github.com/custodia-labs/f5lake/internal/postprocessors"
)

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c *closers) add(fn func() error) {
	*c = append(*c, fn)
}

func (c closers) close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// bootstrap builds every service from settings.
//
//nolint:gocyclo // Composition root with one step per adapter
func bootstrap(ctx context.Context, opts cli.Options) (_ *cli.Services, err error) {
	var cleanup closers
	defer func() {
		if err != nil {
			_ = cleanup.close()
		}
	}()

	// 1. Configuration
	configStore, err := openConfig(opts)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	// 2. Record pipeline
	pipeline, err := buildPipeline(settings.Enrichment, cli.Version())
	if err != nil {
		return nil, err
	}
	orchestrator := services.NewBatchOrchestrator(pipeline, services.WithWorkers(settings.Pipeline.Workers))

	// 3. Storage
	dataDir, err := resolveDataDir(settings.DataDir, opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	cleanup.add(store.Close)
	logger.Debug("using database %s", store.Path())

	// 4. Sinks
	sink, err := buildSinks(settings.Output, store)
	if err != nil {
		return nil, err
	}
	cleanup.add(sink.Close)

	ingestOpts := []services.IngestOption{
		services.WithSink(sink),
		services.WithRunStore(store.RunStore()),
		services.WithSinkBatchSize(settings.Pipeline.BatchSize),
		services.WithSlowThreshold(settings.Enrichment.SlowThresholdMs),
	}

	// 5. Alerts
	if url := settings.Alerts.WebhookURL; url != "" {
		notifier := webhook.New(url, webhook.WithRate(settings.Alerts.RatePerSecond))
		cleanup.add(notifier.Close)
		evaluator := services.NewAlertEvaluator(settings.Enrichment.SlowThresholdMs, settings.Alerts.LargeResponseBytes)
		ingestOpts = append(ingestOpts, services.WithAlerts(evaluator, notifier))
	}

	// 6. Metrics
	if addr := settings.MetricsAddr; addr != "" {
		reg := metrics.NewRegistry()
		reporter, err := metrics.NewReporter(reg)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		ingestOpts = append(ingestOpts, services.WithReporter(reporter))

		metricsCtx, stop := context.WithCancel(ctx)
		cleanup.add(func() error { stop(); return nil })
		go func() {
			if err := metrics.Serve(metricsCtx, addr, reg); err != nil {
				logger.Warn("metrics: %v", err)
			}
		}()
		logger.Info("serving metrics on %s/metrics", addr)
	}

	// 7. Services
	factory := filesystem.NewFactory(filesystem.WithEncoding(settings.Input.Encoding))
	ingest := services.NewIngestService(factory, orchestrator, ingestOpts...)
	watch := services.NewWatchService(ingest, func(dir string) driven.Watcher {
		return filesystem.NewWatcher(dir)
	})

	return &cli.Services{
		Ingest:   ingest,
		Watch:    watch,
		Parse:    services.NewParseService(pipeline),
		Runs:     services.NewRunService(store.RunStore(), store.Records()),
		Settings: settingsService,
		Close:    cleanup.close,
	}, nil
}

// openConfig returns the TOML store, or an in-memory one with --no-config.
func openConfig(opts cli.Options) (driven.ConfigStore, error) {
	if opts.NoConfig {
		return memory.NewConfigStore(), nil
	}
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return store, nil
}

// buildPipeline assembles detector, extractor, decoder, normaliser and
// the configured enrichment chain.
func buildPipeline(settings domain.EnrichmentSettings, version string) (*services.RecordPipeline, error) {
	cfg, err := settings.EnrichmentConfig(version)
	if err != nil {
		return nil, fmt.Errorf("enrichment settings: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry, cfg)
	chain, err := registry.BuildPipeline(settings.PipelineConfig())
	if err != nil {
		return nil, fmt.Errorf("building enrichment chain: %w", err)
	}

	return services.NewRecordPipeline(
		detector.New(),
		extractor.New(),
		extractor.NewDecoder(),
		f5.New(),
		chain,
	), nil
}

// buildSinks opens the configured sinks behind one fan-out.
func buildSinks(out domain.OutputSettings, store *sqlite.Store) (*multi.Sink, error) {
	var sinks []driven.RecordSink
	fail := func(err error) (*multi.Sink, error) {
		_ = multi.New(sinks...).Close()
		return nil, err
	}

	for _, kind := range out.Sinks {
		switch kind {
		case domain.SinkSQLite:
			sinks = append(sinks, store.Records())
		case domain.SinkStdout:
			sinks = append(sinks, stdout.New())
		case domain.SinkNDJSON:
			s, err := ndjson.New(out.NDJSONPath, ndjson.WithMaxBytes(out.NDJSONMaxBytes))
			if err != nil {
				return fail(fmt.Errorf("ndjson sink: %w", err))
			}
			sinks = append(sinks, s)
		case domain.SinkNATS:
			s, err := nats.Connect(out.NATSURL, out.NATSSubjectPrefix)
			if err != nil {
				return fail(err)
			}
			sinks = append(sinks, s)
		default:
			return fail(fmt.Errorf("%w: sink %q", domain.ErrUnsupportedType, kind))
		}
	}
	return multi.New(sinks...), nil
}

// resolveDataDir picks the database directory: the setting, then
// <config dir>/data, then the default home.
func resolveDataDir(setting, configDir string) (string, error) {
	if setting != "" {
		return setting, nil
	}
	if configDir != "" {
		return filepath.Join(configDir, "data"), nil
	}
	dir, err := file.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}
