package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/runnerr0/trafficlog/internal/series"
)

// ErrNoData signals a chart request against an empty series. Callers report
// "no data" instead of rendering a misleading empty chart.
var ErrNoData = fmt.Errorf("no data to chart")

// Palette matches the historical plots so regenerated graphs stay visually
// continuous with the ones already published.
var (
	viewsColor   = drawing.ColorFromHex("2E86AB")
	uniquesColor = drawing.ColorFromHex("A23B72")
)

// ChartOptions sizes the rendered SVG.
type ChartOptions struct {
	Width  int
	Height int
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	return o
}

// ViewsChart writes an SVG of daily views and unique visitors over time,
// with dashed mean reference lines and cumulative totals in the legend.
func ViewsChart(w io.Writer, repoName string, s series.CanonicalSeries, m series.Metrics, opts ChartOptions) error {
	sorted := s.Sorted()
	if len(sorted) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	xs := make([]time.Time, len(sorted))
	counts := make([]float64, len(sorted))
	uniques := make([]float64, len(sorted))
	meanCounts := make([]float64, len(sorted))
	meanUniques := make([]float64, len(sorted))
	for i, obs := range sorted {
		xs[i] = obs.Day
		counts[i] = float64(obs.Count)
		uniques[i] = float64(obs.Uniques)
		meanCounts[i] = m.MeanCount
		meanUniques[i] = m.MeanUniques
	}

	// go-chart refuses single-point series; pad one day so a store with a
	// lone observation still renders.
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		counts = append(counts, counts[0])
		uniques = append(uniques, uniques[0])
		meanCounts = append(meanCounts, meanCounts[0])
		meanUniques = append(meanUniques, meanUniques[0])
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Repository Views Over Time", repoName),
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Number of Views",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    fmt.Sprintf("Total Views (Cumulative: %s)", humanize.Comma(int64(m.TotalCount))),
				XValues: xs,
				YValues: counts,
				Style: chart.Style{
					StrokeColor: viewsColor,
					StrokeWidth: 1.5,
					DotColor:    viewsColor,
					DotWidth:    2.5,
				},
			},
			chart.TimeSeries{
				Name:    fmt.Sprintf("Unique Visitors (Cumulative: %s)", humanize.Comma(int64(m.TotalUniques))),
				XValues: xs,
				YValues: uniques,
				Style: chart.Style{
					StrokeColor: uniquesColor,
					StrokeWidth: 1.5,
					DotColor:    uniquesColor,
					DotWidth:    2.5,
				},
			},
			chart.TimeSeries{
				Name:    fmt.Sprintf("Avg Total Views (%.1f)", m.MeanCount),
				XValues: xs,
				YValues: meanCounts,
				Style: chart.Style{
					StrokeColor:     viewsColor,
					StrokeWidth:     1.2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.TimeSeries{
				Name:    fmt.Sprintf("Avg Unique Visitors (%.1f)", m.MeanUniques),
				XValues: xs,
				YValues: meanUniques,
				Style: chart.Style{
					StrokeColor:     uniquesColor,
					StrokeWidth:     1.2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.SVG, w)
}

// DeltaChart writes an SVG of day-over-day changes for views and uniques.
func DeltaChart(w io.Writer, repoName string, m series.Metrics, opts ChartOptions) error {
	if len(m.Deltas) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	xs := make([]time.Time, len(m.Deltas))
	countDeltas := make([]float64, len(m.Deltas))
	uniqueDeltas := make([]float64, len(m.Deltas))
	for i, d := range m.Deltas {
		xs[i] = d.Day
		countDeltas[i] = float64(d.Count)
		uniqueDeltas[i] = float64(d.Uniques)
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(24*time.Hour))
		countDeltas = append(countDeltas, countDeltas[0])
		uniqueDeltas = append(uniqueDeltas, uniqueDeltas[0])
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Day-over-Day Change", repoName),
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Change vs Previous Day",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Views Delta",
				XValues: xs,
				YValues: countDeltas,
				Style: chart.Style{
					StrokeColor: viewsColor,
					StrokeWidth: 1.5,
				},
			},
			chart.TimeSeries{
				Name:    "Uniques Delta",
				XValues: xs,
				YValues: uniqueDeltas,
				Style: chart.Style{
					StrokeColor: uniquesColor,
					StrokeWidth: 1.5,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.SVG, w)
}
