package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Process log files as they appear in a directory",
	Long: `Watch a directory and process each new or renamed-in file as its own
batch once it stops changing. Runs until interrupted.

Example:
  f5lake watch /var/log/f5/incoming`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return fmt.Errorf("watch %w", errNotConfigured)
	}

	out := cmd.OutOrStdout()
	cmd.Printf("Watching %s (ctrl+c to stop)\n", args[0])

	err := watchService.Watch(cmd.Context(), args[0], func(run *domain.BatchRun, err error) {
		switch {
		case run == nil:
			fmt.Fprintf(out, "batch failed: %v\n", err)
		case err != nil:
			fmt.Fprintf(out, "%s %s: %s\n", run.Source, failStyle.Render(string(run.Status)), err)
		default:
			fmt.Fprintf(out, "%s %s: %s, %.2f%% ok, %s\n",
				run.Source, run.Status, plural(run.Stats.Total, "record"),
				run.Stats.SuccessRate(), plural(run.Alerts, "alert"))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
