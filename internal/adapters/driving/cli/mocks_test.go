package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// mockIngestService implements driving.IngestService.
type mockIngestService struct {
	run    *domain.BatchRun
	err    error
	source string
}

func (m *mockIngestService) Ingest(_ context.Context, source string) (*domain.BatchRun, error) {
	m.source = source
	return m.run, m.err
}

func (m *mockIngestService) Status(context.Context) (*driving.IngestStatus, error) {
	return &driving.IngestStatus{}, nil
}

// mockWatchService implements driving.WatchService.
type mockWatchService struct {
	runs []*domain.BatchRun
	errs []error
	err  error
	dir  string
}

func (m *mockWatchService) Watch(_ context.Context, dir string, done func(*domain.BatchRun, error)) error {
	m.dir = dir
	for i, run := range m.runs {
		var err error
		if i < len(m.errs) {
			err = m.errs[i]
		}
		done(run, err)
	}
	return m.err
}

// mockParseService implements driving.ParseService.
type mockParseService struct {
	results map[string]*driving.ParseResult
	err     error
	lines   []string
}

func (m *mockParseService) Parse(_ context.Context, raw string) (*driving.ParseResult, error) {
	m.lines = append(m.lines, raw)
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.results[raw]; ok {
		return r, nil
	}
	return &driving.ParseResult{
		Format: domain.FormatUnknown,
		State:  domain.StateRejected,
		Reason: "format unknown",
	}, nil
}

func (m *mockParseService) Detect(raw string) domain.DetectedFormat {
	if strings.HasPrefix(raw, "{") {
		return domain.FormatStructured
	}
	return domain.FormatFlatText
}

// mockRunService implements driving.RunService.
type mockRunService struct {
	runs      []domain.BatchRun
	records   []domain.EnrichedRecord
	breakdown map[string]int64
	err       error
	deleted   string
	limit     int
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.BatchRun, error) {
	m.limit = limit
	return m.runs, m.err
}

func (m *mockRunService) Get(_ context.Context, id string) (*domain.BatchRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunService) Delete(_ context.Context, id string) error {
	if _, err := m.Get(context.Background(), id); err != nil {
		return err
	}
	m.deleted = id
	return nil
}

func (m *mockRunService) RecentRecords(_ context.Context, limit int) ([]domain.EnrichedRecord, error) {
	m.limit = limit
	return m.records, m.err
}

func (m *mockRunService) StatusBreakdown(context.Context) (map[string]int64, error) {
	return m.breakdown, m.err
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = map[string]string{}
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"input.encoding", "pipeline.workers"}
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Path() string {
	return "/tmp/f5lake/config.toml"
}

// withServices installs services for one test.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	originalBootstrap := bootstrap
	bootstrap = nil
	SetServices(s)
	t.Cleanup(func() {
		SetServices(nil)
		bootstrap = originalBootstrap
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if stdin != nil {
		rootCmd.SetIn(stdin)
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag defaults, which cobra keeps between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
