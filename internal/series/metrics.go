package series

import "time"

// Peak is the day a metric reached its maximum. Ties go to the earliest day.
type Peak struct {
	Day   time.Time
	Value int
}

// Delta is one day-over-day change. The first day's delta is the value
// itself (the day before the series starts counts as zero).
type Delta struct {
	Day     time.Time
	Count   int
	Uniques int
}

// Metrics holds everything derived from a canonical series. Computed, never
// stored.
type Metrics struct {
	Days         int
	FirstDay     time.Time
	LastDay      time.Time
	TotalCount   int
	TotalUniques int
	MeanCount    float64
	MeanUniques  float64
	PeakCount    Peak
	PeakUniques  Peak
	Deltas       []Delta
}

// Compute derives metrics from a canonical series. An empty series yields
// zero totals and zero means, not an error, so the calculator stays total.
func Compute(s CanonicalSeries) Metrics {
	sorted := s.Sorted()

	m := Metrics{Days: len(sorted)}
	if len(sorted) == 0 {
		return m
	}

	m.FirstDay = sorted[0].Day
	m.LastDay = sorted[len(sorted)-1].Day
	m.Deltas = make([]Delta, len(sorted))

	prevCount, prevUniques := 0, 0
	for i, obs := range sorted {
		m.TotalCount += obs.Count
		m.TotalUniques += obs.Uniques

		if obs.Count > m.PeakCount.Value || i == 0 {
			m.PeakCount = Peak{Day: obs.Day, Value: obs.Count}
		}
		if obs.Uniques > m.PeakUniques.Value || i == 0 {
			m.PeakUniques = Peak{Day: obs.Day, Value: obs.Uniques}
		}

		m.Deltas[i] = Delta{
			Day:     obs.Day,
			Count:   obs.Count - prevCount,
			Uniques: obs.Uniques - prevUniques,
		}
		prevCount, prevUniques = obs.Count, obs.Uniques
	}

	m.MeanCount = float64(m.TotalCount) / float64(len(sorted))
	m.MeanUniques = float64(m.TotalUniques) / float64(len(sorted))

	return m
}
