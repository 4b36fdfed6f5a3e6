// Package cli provides the cobra command tree for f5lake.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
	"github.com/custodia-labs/f5lake/internal/logger"
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

// errNotConfigured is returned when a command needs a service that was not wired.
var errNotConfigured = errors.New("service not configured")

var (
	version = "dev"

	ingestService   driving.IngestService
	watchService    driving.WatchService
	parseService    driving.ParseService
	runService      driving.RunService
	settingsService driving.SettingsService

	bootstrap Bootstrap
	closer    func() error
)

// Options are the global flags handed to Bootstrap.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// NoConfig uses built-in defaults and never touches the config file.
	NoConfig bool

	Verbose bool
}

// Services are the driving ports the commands call.
type Services struct {
	Ingest   driving.IngestService
	Watch    driving.WatchService
	Parse    driving.ParseService
	Runs     driving.RunService
	Settings driving.SettingsService

	// Close releases stores and sinks. May be nil.
	Close func() error
}

// Bootstrap builds services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "f5lake",
	Short: "Parse, normalise and enrich F5 access logs",
	Long: `f5lake turns F5 BIG-IP access logs into typed, enriched records.

Each record is detected as flat text or a structured JSON document, split
into its 21 canonical fields, normalised, enriched with analytic dimensions
and written to the configured sinks. Every batch is recorded with its
statistics and per-pool health.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "configuration directory (default $F5LAKE_HOME or ~/.f5lake)")
	rootCmd.PersistentFlags().Bool("no-config", false, "ignore the configuration file and use defaults")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().String("log-format", string(logger.FormatAuto), "log format: auto, text or json")
}

// SetVersion sets the version reported by the version command and stamped on records.
func SetVersion(v string) {
	version = v
}

// Version returns the configured version.
func Version() string {
	return version
}

// SetBootstrap registers the function that builds services.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		ingestService, watchService, parseService, runService, settingsService = nil, nil, nil, nil, nil
		closer = nil
		return
	}
	ingestService = s.Ingest
	watchService = s.Watch
	parseService = s.Parse
	runService = s.Runs
	settingsService = s.Settings
	closer = s.Close
}

// Execute runs the command tree and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closer != nil {
		if cerr := closer(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
		closer = nil
	}
	return err
}

// prepare applies logging flags and builds services on first use.
func prepare(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger.SetVerbose(verbose)

	if f, _ := cmd.Flags().GetString("log-format"); f != "" {
		switch logger.Format(f) {
		case logger.FormatAuto, logger.FormatText, logger.FormatJSON:
			logger.SetFormat(logger.Format(f))
		default:
			return fmt.Errorf("invalid log format %q", f)
		}
	}

	if cmd.Annotations[skipBootstrap] == "true" || bootstrap == nil || servicesReady() {
		return nil
	}

	configDir, _ := cmd.Flags().GetString("config-dir")
	noConfig, _ := cmd.Flags().GetBool("no-config")

	services, err := bootstrap(cmd.Context(), Options{
		ConfigDir: configDir,
		NoConfig:  noConfig,
		Verbose:   verbose,
	})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	return nil
}

func servicesReady() bool {
	return ingestService != nil || parseService != nil || runService != nil || settingsService != nil
}
