// Package stats renders batch counters and pool health for the TUI.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/f5lake/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/f5lake/internal/core/domain"
)

// Render returns the batch counter panel.
func Render(s *styles.Styles, st domain.BatchStats) string {
	rate := st.SuccessRate()
	rows := []string{
		s.Row("Total records", fmt.Sprintf("%d", st.Total)),
		s.Row("  structured", fmt.Sprintf("%d", st.StructuredCount)),
		s.Row("  flat text", fmt.Sprintf("%d", st.FlatTextCount)),
		s.Row("Succeeded", s.Success.Render(fmt.Sprintf("%d", st.Succeeded))),
		s.Row("Parse errors", errorCount(s, st.ParseErrors)),
		s.Row("Format errors", errorCount(s, st.FormatErrors)),
		s.Row("Success rate", s.Rate(rate).Render(fmt.Sprintf("%.2f%%", rate))),
	}
	return s.Panel.Render(strings.Join(rows, "\n"))
}

func errorCount(s *styles.Styles, n int64) string {
	text := fmt.Sprintf("%d", n)
	if n == 0 {
		return s.Normal.Render(text)
	}
	return s.Error.Render(text)
}

// RenderPools returns up to limit pools ordered by request count.
// A limit of zero or less shows every pool.
func RenderPools(s *styles.Styles, pools []domain.PoolHealth, limit int) string {
	if len(pools) == 0 {
		return s.Muted.Render("No pool data")
	}

	sorted := make([]domain.PoolHealth, len(pools))
	copy(sorted, pools)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Requests > sorted[j].Requests
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	lines := []string{
		s.Subtitle.Render(fmt.Sprintf("%-10s %-32s %8s %7s %7s %9s %6s",
			"ENV", "POOL", "REQS", "ERR%", "SLOW%", "P95 ms", "HEALTH")),
	}
	for _, p := range sorted {
		line := fmt.Sprintf("%-10s %-32s %8d %6.1f%% %6.1f%% %9.0f ",
			truncate(p.Environment, 10), truncate(p.Pool, 32),
			p.Requests, p.ErrorRate, p.SlowRate, p.P95ResponseMs)
		lines = append(lines, s.Normal.Render(line)+s.Health(p.HealthScore).Render(fmt.Sprintf("%6.1f", p.HealthScore)))
	}
	return strings.Join(lines, "\n")
}

// truncate keeps the tail of long names, where pool names differ.
func truncate(v string, n int) string {
	if len(v) <= n {
		return v
	}
	return "…" + v[len(v)-n+1:]
}
