package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/f5lake/internal/core/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E4002B"))
	labelStyle   = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("#9CA3AF"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func row(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(label), value)
}

// renderRun prints the batch statistics and pool health of a run.
func renderRun(w io.Writer, run *domain.BatchRun) {
	fmt.Fprintln(w, headingStyle.Render("Batch "+run.ID))
	row(w, "Source", run.Source)
	row(w, "Status", run.Status)
	if run.Error != "" {
		row(w, "Error", failStyle.Render(run.Error))
	}
	row(w, "Started", run.StartedAt.Format(time.RFC3339))
	row(w, "Duration", run.Duration().Round(time.Millisecond))
	fmt.Fprintln(w)

	renderStats(w, run.Stats)
	row(w, "Alerts", run.Alerts)

	if len(run.Pools) > 0 {
		fmt.Fprintln(w)
		renderPools(w, run.Pools)
	}
}

// renderStats prints the batch counters.
func renderStats(w io.Writer, s domain.BatchStats) {
	fmt.Fprintln(w, headingStyle.Render("Statistics"))
	row(w, "Total records", s.Total)
	row(w, "  structured", s.StructuredCount)
	row(w, "  flat text", s.FlatTextCount)
	row(w, "Succeeded", s.Succeeded)
	row(w, "Parse errors", s.ParseErrors)
	row(w, "Format errors", s.FormatErrors)
	row(w, "Success rate", fmt.Sprintf("%.2f%%", s.SuccessRate()))
}

// renderPools prints pool health, busiest first.
func renderPools(w io.Writer, pools []domain.PoolHealth) {
	sorted := make([]domain.PoolHealth, len(pools))
	copy(sorted, pools)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Requests > sorted[j].Requests })

	fmt.Fprintln(w, headingStyle.Render("Pool health"))
	fmt.Fprintf(w, "  %-10s %-40s %8s %7s %7s %9s %6s\n", "ENV", "POOL", "REQS", "ERR%", "SLOW%", "P95 ms", "SCORE")
	for _, p := range sorted {
		fmt.Fprintf(w, "  %-10s %-40s %8d %6.1f%% %6.1f%% %9.0f %6.1f\n",
			p.Environment, p.Pool, p.Requests, p.ErrorRate, p.SlowRate, p.P95ResponseMs, p.HealthScore)
	}
}

// renderRunList prints one line per run.
func renderRunList(w io.Writer, runs []domain.BatchRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-20s  %-9s  %8s  %7s  %s\n", "ID", "STARTED", "STATUS", "RECORDS", "OK%", "SOURCE")
	for i := range runs {
		r := &runs[i]
		status := string(r.Status)
		if r.Status == domain.RunFailed {
			status = failStyle.Render(status)
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-9s  %8d  %6.1f%%  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), status, r.Stats.Total, r.Stats.SuccessRate(), r.Source)
	}
}

// renderBreakdown prints record counts per status category.
func renderBreakdown(w io.Writer, counts map[string]int64) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No stored records.")
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row(w, k, counts[k])
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeNDJSON prints each value on its own line.
func writeNDJSON[T any](w io.Writer, values []T) error {
	enc := json.NewEncoder(w)
	for i := range values {
		if err := enc.Encode(values[i]); err != nil {
			return err
		}
	}
	return nil
}

func plural(n int64, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
