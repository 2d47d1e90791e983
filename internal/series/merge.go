package series

import (
	"sort"
	"time"
)

// CanonicalSeries maps each calendar day (midnight UTC) to the surviving
// observation for that day. It is derived state, recomputed in full from a
// store's records on every read and never persisted.
type CanonicalSeries map[time.Time]DailyObservation

// Merge folds fetch records in append order into a canonical series.
//
// Rolling 14-day windows overlap from fetch to fetch, so the same day shows
// up in multiple records. Later records overwrite earlier ones for the same
// day: the append order is the total order that makes the tie-break
// deterministic. If upstream revises a finalized day, the revision wins.
func Merge(records []FetchRecord) CanonicalSeries {
	series := make(CanonicalSeries)
	for _, rec := range records {
		for _, obs := range rec.Days {
			series[obs.Day] = obs
		}
	}
	return series
}

// Sorted returns the observations in ascending day order. All consumers
// (metrics, summaries, charts) iterate this slice, never the map.
func (s CanonicalSeries) Sorted() []DailyObservation {
	out := make([]DailyObservation, 0, len(s))
	for _, obs := range s {
		out = append(out, obs)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out
}
