package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// parseOutput is one line of parse output.
type parseOutput struct {
	Format string                 `json:"format"`
	State  domain.State           `json:"state"`
	Reason string                 `json:"reason,omitempty"`
	Record *domain.EnrichedRecord `json:"record,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [line]",
	Short: "Parse single records without storing them",
	Long: `Run records through detection, extraction, normalisation and
enrichment and print the result as JSON, one line per record.

With no argument, records are read from standard input, one per line.
Nothing is written to sinks or run history.

Examples:
  f5lake parse 'Aug  8 03:33:01 f5-node-01 ...'
  head -5 access.log | f5lake parse
  f5lake parse --detect < access.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("detect", false, "only print the detected format")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseService == nil {
		return fmt.Errorf("parse %w", errNotConfigured)
	}
	detectOnly, _ := cmd.Flags().GetBool("detect")
	out := cmd.OutOrStdout()

	handle := func(line string) error {
		if detectOnly {
			fmt.Fprintln(out, parseService.Detect(line))
			return nil
		}
		result, err := parseService.Parse(cmd.Context(), line)
		if err != nil {
			return err
		}
		data, err := json.Marshal(parseOutput{
			Format: string(result.Format),
			State:  result.State,
			Reason: result.Reason,
			Record: result.Record,
		})
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(args) == 1 {
		return handle(args[0])
	}
	return eachLine(cmd.InOrStdin(), handle)
}

// eachLine calls fn for every non-blank line of r.
func eachLine(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
