package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/f5lake/internal/core/domain"
	"github.com/custodia-labs/f5lake/internal/core/ports/driving"
)

// progressInterval is how often live counters are redrawn.
const progressInterval = 500 * time.Millisecond

var processCmd = &cobra.Command{
	Use:     "process <source>",
	Aliases: []string{"ingest"},
	Short:   "Process a log file, directory or stdin as one batch",
	Long: `Process every record of a source as one batch.

The source is a file, a directory (its regular files are read in name
order) or "-" for standard input. Gzip input is detected automatically.

Accepted records are written to the configured sinks. Rejected records are
counted and dropped. The batch statistics are printed when done and stored
in the run history.

Examples:
  f5lake process /var/log/f5/access.log
  zcat access.log.gz | f5lake process -
  f5lake process ./logs --json`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Bool("json", false, "print the run as JSON")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return fmt.Errorf("ingest %w", errNotConfigured)
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	run, err := ingestWithProgress(cmd.Context(), cmd.ErrOrStderr(), args[0])
	if run != nil {
		if asJSON {
			if jerr := writeJSON(cmd.OutOrStdout(), run); jerr != nil {
				return jerr
			}
		} else {
			renderRun(cmd.OutOrStdout(), run)
		}
	}
	if err != nil {
		return fmt.Errorf("processing %s: %w", args[0], err)
	}
	return nil
}

// ingestWithProgress runs the batch and redraws its counters on a terminal.
func ingestWithProgress(ctx context.Context, progress io.Writer, source string) (*domain.BatchRun, error) {
	type result struct {
		run *domain.BatchRun
		err error
	}
	done := make(chan result, 1)
	go func() {
		run, err := ingestService.Ingest(ctx, source)
		done <- result{run, err}
	}()

	live := isTerminal(progress)
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case r := <-done:
			if live {
				fmt.Fprint(progress, "\r\033[K")
			}
			return r.run, r.err
		case <-ticker.C:
			if !live {
				continue
			}
			status, err := ingestService.Status(ctx)
			if err != nil || status == nil || !status.Running {
				continue
			}
			printProgress(progress, status)
		}
	}
}

func printProgress(w io.Writer, status *driving.IngestStatus) {
	s := status.Stats
	fmt.Fprintf(w, "\r\033[KProcessing %s... %s (%d ok, %d rejected)",
		status.Source, plural(s.Total, "record"), s.Succeeded, s.ParseErrors+s.FormatErrors)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
