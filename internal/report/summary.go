// Package report renders canonical series and derived metrics for humans:
// textual summaries and SVG charts.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/trafficlog/internal/series"
)

const dayFormat = "2006-01-02"

// Summary renders the per-repository statistics block. An empty series
// produces an explicit "no data" notice instead of a zero-filled report.
func Summary(repoName string, m series.Metrics) string {
	var b strings.Builder

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "=== %s Repository Statistics Summary ===\n", repoName)
	fmt.Fprintln(&b, rule)

	if m.Days == 0 {
		fmt.Fprintln(&b, "No data recorded for this repository yet.")
		return b.String()
	}

	fmt.Fprintf(&b, "Total Views: %s\n", humanize.Comma(int64(m.TotalCount)))
	fmt.Fprintf(&b, "Unique Visitors: %s\n", humanize.Comma(int64(m.TotalUniques)))
	fmt.Fprintf(&b, "Date Range: %s to %s\n", m.FirstDay.Format(dayFormat), m.LastDay.Format(dayFormat))
	fmt.Fprintf(&b, "Average Daily Views: %.1f\n", m.MeanCount)
	fmt.Fprintf(&b, "Average Daily Unique Visitors: %.1f\n", m.MeanUniques)
	fmt.Fprintf(&b, "Peak Daily Views: %s (on %s)\n",
		humanize.Comma(int64(m.PeakCount.Value)), m.PeakCount.Day.Format(dayFormat))
	fmt.Fprintf(&b, "Peak Daily Unique Visitors: %s (on %s)\n",
		humanize.Comma(int64(m.PeakUniques.Value)), m.PeakUniques.Day.Format(dayFormat))

	return b.String()
}
