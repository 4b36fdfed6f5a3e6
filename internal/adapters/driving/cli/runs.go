package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect batch history and stored records",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent batches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if runService == nil {
			return fmt.Errorf("run %w", errNotConfigured)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := runService.List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if runs == nil {
				runs = []domain.BatchRun{}
			}
			return writeJSON(cmd.OutOrStdout(), runs)
		}
		renderRunList(cmd.OutOrStdout(), runs)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show statistics and pool health of a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runService == nil {
			return fmt.Errorf("run %w", errNotConfigured)
		}
		run, err := runService.Get(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("getting run: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), run)
		}
		renderRun(cmd.OutOrStdout(), run)
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a batch from history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runService == nil {
			return fmt.Errorf("run %w", errNotConfigured)
		}
		if err := runService.Delete(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("run %s not found", args[0])
			}
			return fmt.Errorf("deleting run: %w", err)
		}
		cmd.Printf("Deleted run %s\n", args[0])
		return nil
	},
}

var runsRecordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print recently stored records as NDJSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if runService == nil {
			return fmt.Errorf("run %w", errNotConfigured)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		records, err := runService.RecentRecords(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("reading records: %w", err)
		}
		return writeNDJSON(cmd.OutOrStdout(), records)
	},
}

var runsBreakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Count stored records per status category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if runService == nil {
			return fmt.Errorf("run %w", errNotConfigured)
		}
		counts, err := runService.StatusBreakdown(cmd.Context())
		if err != nil {
			return fmt.Errorf("status breakdown: %w", err)
		}
		renderBreakdown(cmd.OutOrStdout(), counts)
		return nil
	},
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum number of runs")
	runsListCmd.Flags().Bool("json", false, "print as JSON")
	runsShowCmd.Flags().Bool("json", false, "print as JSON")
	runsRecordsCmd.Flags().Int("limit", 10, "maximum number of records")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd, runsRecordsCmd, runsBreakdownCmd)
	rootCmd.AddCommand(runsCmd)
}
