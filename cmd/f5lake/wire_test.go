package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/f5lake/internal/adapters/driven/config/file"
	"github.com/custodia-labs/f5lake/internal/adapters/driving/cli"
	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/services"
)

const accessLine = `Aug  8 03:33:33 www.gub.uy 186.48.242.68 [10.233.114.14] - "" [08/Aug/2025:03:33:33 -0300] ` +
	`"GET /a HTTP/1.1" 200 100 "-" "Mozilla/5.0" Time 42 Age "" "text/html" "" - ` +
	`"/Common/vs_portal" "/Common/pool_portal" TEPROD`

func TestBootstrap_NoConfig(t *testing.T) {
	dir := t.TempDir()

	svc, err := bootstrap(context.Background(), cli.Options{ConfigDir: dir, NoConfig: true})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })

	result, err := svc.Parse.Parse(context.Background(), accessLine)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatFlatText, result.Format)
	assert.Equal(t, domain.StateDone, result.State)
	require.NotNil(t, result.Record)

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.NoError(t, err, "database directory should be created under the config dir")
}

func TestBootstrap_IngestToSQLiteAndNDJSON(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "records.ndjson")

	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	settings := services.NewSettingsService(store)
	require.NoError(t, settings.Set("output.sinks", "sqlite,ndjson"))
	require.NoError(t, settings.Set("output.ndjson_path", out))

	source := filepath.Join(dir, "access.log")
	require.NoError(t, os.WriteFile(source, []byte(accessLine+"\n"+accessLine+"\n"), 0600))

	svc, err := bootstrap(context.Background(), cli.Options{ConfigDir: dir})
	require.NoError(t, err)

	run, err := svc.Ingest.Ingest(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, domain.RunSucceeded, run.Status)
	assert.Equal(t, int64(2), run.Stats.Succeeded)

	stored, err := svc.Runs.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.ID)

	records, err := svc.Runs.RecentRecords(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, svc.Close())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestBootstrap_InvalidEnrichment(t *testing.T) {
	dir := t.TempDir()

	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("enrichment.chain", []any{"no_such_enricher"}))

	_, err = bootstrap(context.Background(), cli.Options{ConfigDir: dir})

	assert.Error(t, err)
}

func TestBuildSinks_Unsupported(t *testing.T) {
	_, err := buildSinks(domain.OutputSettings{Sinks: []domain.SinkType{"kafka"}}, nil)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestResolveDataDir(t *testing.T) {
	tests := []struct {
		name      string
		setting   string
		configDir string
		expected  string
	}{
		{name: "explicit setting", setting: "/var/lib/f5lake", configDir: "/etc/f5lake", expected: "/var/lib/f5lake"},
		{name: "under config dir", configDir: "/etc/f5lake", expected: filepath.Join("/etc/f5lake", "data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDataDir(tt.setting, tt.configDir)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveDataDir_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv("F5LAKE_HOME", home)

	got, err := resolveDataDir("", "")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), got)
}
