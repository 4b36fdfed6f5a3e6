package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Show and change settings stored in config.toml.

Keys are dotted, e.g. pipeline.workers or enrichment.latency_profile.
List values are comma separated.

Examples:
  f5lake config show
  f5lake config set enrichment.slow_threshold_ms 3000
  f5lake config set output.sinks sqlite,ndjson`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return fmt.Errorf("settings %w", errNotConfigured)
		}
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), settings)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, headingStyle.Render("Settings"))
		for _, kv := range settingRows(settings) {
			row(out, kv[0], kv[1])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsService == nil {
			return fmt.Errorf("settings %w", errNotConfigured)
		}
		if err := settingsService.Set(args[0], args[1]); err != nil {
			return err
		}
		cmd.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return fmt.Errorf("settings %w", errNotConfigured)
		}
		cmd.Println(settingsService.Path())
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List supported setting keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return fmt.Errorf("settings %w", errNotConfigured)
		}
		for _, k := range settingsService.Keys() {
			cmd.Println(k)
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().Bool("json", false, "print as JSON")
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd, configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

// settingRows flattens settings into display rows keyed like config.toml.
func settingRows(s *domain.AppSettings) [][2]string {
	sinks := make([]string, len(s.Output.Sinks))
	for i, sink := range s.Output.Sinks {
		sinks[i] = sink.String()
	}
	thresholds := make([]string, len(s.Enrichment.LatencyThresholds))
	for i, t := range s.Enrichment.LatencyThresholds {
		thresholds[i] = strconv.FormatInt(t, 10)
	}

	workers := strconv.Itoa(s.Pipeline.Workers)
	if s.Pipeline.Workers == 0 {
		workers = "0 (one per CPU)"
	}

	return [][2]string{
		{"pipeline.workers", workers},
		{"pipeline.batch_size", strconv.Itoa(s.Pipeline.BatchSize)},
		{"input.encoding", s.Input.Encoding},
		{"enrichment.chain", orDefault(strings.Join(s.Enrichment.Chain, ","))},
		{"enrichment.latency_profile", s.Enrichment.LatencyProfile},
		{"enrichment.latency_thresholds", orDefault(strings.Join(thresholds, ","))},
		{"enrichment.slow_threshold_ms", strconv.FormatInt(s.Enrichment.SlowThresholdMs, 10)},
		{"enrichment.mobile_preset", s.Enrichment.MobilePreset},
		{"enrichment.mobile_tokens", orDefault(strings.Join(s.Enrichment.MobileTokens, ","))},
		{"enrichment.mobile_case_insensitive", strconv.FormatBool(s.Enrichment.MobileCaseInsensitive)},
		{"output.sinks", strings.Join(sinks, ",")},
		{"output.ndjson_path", s.Output.NDJSONPath},
		{"output.ndjson_max_bytes", strconv.FormatInt(s.Output.NDJSONMaxBytes, 10)},
		{"nats.url", s.Output.NATSURL},
		{"nats.subject_prefix", s.Output.NATSSubjectPrefix},
		{"alerts.webhook_url", orDefault(s.Alerts.WebhookURL)},
		{"alerts.rate_per_second", strconv.FormatFloat(s.Alerts.RatePerSecond, 'g', -1, 64)},
		{"alerts.large_response_bytes", strconv.FormatInt(s.Alerts.LargeResponseBytes, 10)},
		{"metrics.addr", orDefault(s.MetricsAddr)},
		{"storage.data_dir", orDefault(s.DataDir)},
	}
}

func orDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
