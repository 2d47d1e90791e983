package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEmptySeries(t *testing.T) {
	m := Compute(CanonicalSeries{})

	assert.Equal(t, 0, m.Days)
	assert.Equal(t, 0, m.TotalCount)
	assert.Equal(t, 0, m.TotalUniques)
	assert.Equal(t, 0.0, m.MeanCount, "mean of an empty series is 0, not an error")
	assert.Equal(t, 0.0, m.MeanUniques)
	assert.Empty(t, m.Deltas)
}

func TestComputeTotalsAndMeans(t *testing.T) {
	series := Merge([]FetchRecord{
		window(obs(1, 10, 4), obs(2, 20, 6), obs(3, 30, 8)),
	})

	m := Compute(series)

	assert.Equal(t, 3, m.Days)
	assert.Equal(t, 60, m.TotalCount)
	assert.Equal(t, 18, m.TotalUniques)
	assert.InDelta(t, 20.0, m.MeanCount, 1e-9)
	assert.InDelta(t, 6.0, m.MeanUniques, 1e-9)
	assert.Equal(t, day("2024-01-01"), m.FirstDay)
	assert.Equal(t, day("2024-01-03"), m.LastDay)
}

func TestComputeCumulativeConsistency(t *testing.T) {
	// Totals must match a direct sum over the canonical series, for any
	// merge of any number of overlapping records.
	series := Merge([]FetchRecord{
		window(obs(1, 10, 5), obs(2, 15, 6), obs(3, 20, 7)),
		window(obs(2, 12, 4), obs(3, 25, 9), obs(4, 30, 10)),
		window(obs(4, 31, 11), obs(5, 8, 3)),
	})

	m := Compute(series)

	wantCount, wantUniques := 0, 0
	for _, o := range series.Sorted() {
		wantCount += o.Count
		wantUniques += o.Uniques
	}
	assert.Equal(t, wantCount, m.TotalCount)
	assert.Equal(t, wantUniques, m.TotalUniques)
}

func TestComputeDeltas(t *testing.T) {
	series := Merge([]FetchRecord{
		window(obs(1, 10, 4), obs(2, 25, 6), obs(3, 15, 9)),
	})

	m := Compute(series)

	require.Len(t, m.Deltas, 3)
	assert.Equal(t, Delta{Day: day("2024-01-01"), Count: 10, Uniques: 4}, m.Deltas[0], "first delta is the value itself")
	assert.Equal(t, Delta{Day: day("2024-01-02"), Count: 15, Uniques: 2}, m.Deltas[1])
	assert.Equal(t, Delta{Day: day("2024-01-03"), Count: -10, Uniques: 3}, m.Deltas[2])
}

func TestComputeDeltaReconstruction(t *testing.T) {
	// Summing the deltas recovers the final day's raw value.
	series := Merge([]FetchRecord{
		window(obs(1, 7, 2), obs(2, 19, 8), obs(3, 4, 1), obs(4, 42, 17)),
	})

	m := Compute(series)

	sumCount, sumUniques := 0, 0
	for _, d := range m.Deltas {
		sumCount += d.Count
		sumUniques += d.Uniques
	}

	sorted := series.Sorted()
	last := sorted[len(sorted)-1]
	assert.Equal(t, last.Count, sumCount)
	assert.Equal(t, last.Uniques, sumUniques)
}

func TestComputePeaks(t *testing.T) {
	series := Merge([]FetchRecord{
		window(obs(1, 10, 9), obs(2, 50, 2), obs(3, 30, 7)),
	})

	m := Compute(series)

	assert.Equal(t, Peak{Day: day("2024-01-02"), Value: 50}, m.PeakCount)
	assert.Equal(t, Peak{Day: day("2024-01-01"), Value: 9}, m.PeakUniques, "peaks are tracked per metric independently")
}

func TestComputePeakTieGoesToEarliestDay(t *testing.T) {
	series := Merge([]FetchRecord{
		window(obs(1, 30, 5), obs(2, 30, 5), obs(3, 10, 1)),
	})

	m := Compute(series)

	assert.Equal(t, day("2024-01-01"), m.PeakCount.Day)
	assert.Equal(t, day("2024-01-01"), m.PeakUniques.Day)
}

func TestComputeSingleDay(t *testing.T) {
	series := Merge([]FetchRecord{window(obs(5, 12, 3))})

	m := Compute(series)

	assert.Equal(t, 1, m.Days)
	assert.Equal(t, m.FirstDay, m.LastDay)
	require.Len(t, m.Deltas, 1)
	assert.Equal(t, 12, m.Deltas[0].Count)
	assert.Equal(t, Peak{Day: day("2024-01-05"), Value: 12}, m.PeakCount)
}
