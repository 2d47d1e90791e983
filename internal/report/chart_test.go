package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/trafficlog/internal/series"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func sampleSeries(days int) series.CanonicalSeries {
	cs := make(series.CanonicalSeries)
	start := day("2024-01-01")
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		cs[d] = series.DailyObservation{Day: d, Count: 10 + i*3, Uniques: 2 + i}
	}
	return cs
}

func TestViewsChartRendersSVG(t *testing.T) {
	cs := sampleSeries(14)
	m := series.Compute(cs)

	var buf bytes.Buffer
	err := ViewsChart(&buf, "Widget", cs, m, ChartOptions{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Widget Repository Views Over Time")
	assert.Contains(t, out, "Total Views (Cumulative:")
	assert.Contains(t, out, "Unique Visitors (Cumulative:")
	assert.Contains(t, out, "Avg Total Views")
}

func TestViewsChartSingleObservation(t *testing.T) {
	cs := sampleSeries(1)
	m := series.Compute(cs)

	var buf bytes.Buffer
	err := ViewsChart(&buf, "Widget", cs, m, ChartOptions{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestViewsChartEmptySeries(t *testing.T) {
	cs := series.CanonicalSeries{}
	m := series.Compute(cs)

	var buf bytes.Buffer
	err := ViewsChart(&buf, "Widget", cs, m, ChartOptions{})
	require.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, buf.Len(), "no misleading empty chart is produced")
}

func TestDeltaChartRendersSVG(t *testing.T) {
	cs := sampleSeries(7)
	m := series.Compute(cs)

	var buf bytes.Buffer
	err := DeltaChart(&buf, "Widget", m, ChartOptions{Width: 800, Height: 400})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Widget Day-over-Day Change")
	assert.Contains(t, out, "Views Delta")
}

func TestDeltaChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := DeltaChart(&buf, "Widget", series.Metrics{}, ChartOptions{})
	require.ErrorIs(t, err, ErrNoData)
}
