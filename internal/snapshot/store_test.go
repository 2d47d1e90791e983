package snapshot

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/trafficlog/internal/config"
	"github.com/runnerr0/trafficlog/internal/series"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := openTestDB(t)

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

func testSeries(values map[string][2]int) series.CanonicalSeries {
	cs := make(series.CanonicalSeries)
	for d, v := range values {
		cs[day(d)] = series.DailyObservation{Day: day(d), Count: v[0], Uniques: v[1]}
	}
	return cs
}

var widget = config.Repo{Owner: "acme", Name: "widget", DisplayName: "Widget"}

func TestWriteAndReadSeries(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	cs := testSeries(map[string][2]int{
		"2024-01-01": {10, 5},
		"2024-01-02": {20, 8},
	})
	meta := Meta{TakenAt: time.Now(), RecordsRead: 3, RecordsSkipped: 1}

	require.NoError(t, store.WriteSeries(ctx, widget, cs, meta))

	got, err := store.ReadSeries(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, cs, got)
}

func TestWriteSeriesReplacesPreviousRows(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first := testSeries(map[string][2]int{
		"2024-01-01": {10, 5},
		"2024-01-02": {20, 8},
	})
	require.NoError(t, store.WriteSeries(ctx, widget, first, Meta{}))

	// Second snapshot drops a day and revises another; the table must
	// mirror the new series exactly, not accumulate.
	second := testSeries(map[string][2]int{
		"2024-01-02": {25, 9},
		"2024-01-03": {5, 2},
	})
	require.NoError(t, store.WriteSeries(ctx, widget, second, Meta{}))

	got, err := store.ReadSeries(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestReadSeriesUnknownRepo(t *testing.T) {
	store := setupStore(t)

	got, err := store.ReadSeries(context.Background(), "Nothing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetStats(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.WriteSeries(ctx, widget, testSeries(map[string][2]int{
		"2024-01-01": {10, 5},
		"2024-01-03": {30, 9},
	}), Meta{TakenAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)}))

	gadget := config.Repo{Owner: "acme", Name: "gadget", DisplayName: "Gadget"}
	require.NoError(t, store.WriteSeries(ctx, gadget, series.CanonicalSeries{}, Meta{}))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)

	require.Len(t, stats.Repos, 2)
	assert.Equal(t, int64(2), stats.TotalDays)

	// Sorted by display name: Gadget first.
	assert.Equal(t, "Gadget", stats.Repos[0].DisplayName)
	assert.Equal(t, int64(0), stats.Repos[0].Days)

	w := stats.Repos[1]
	assert.Equal(t, "Widget", w.DisplayName)
	assert.Equal(t, int64(2), w.Days)
	assert.Equal(t, int64(40), w.TotalCount)
	assert.Equal(t, int64(14), w.TotalUniques)
	assert.Equal(t, day("2024-01-01"), w.FirstDay)
	assert.Equal(t, day("2024-01-03"), w.LastDay)
	assert.Equal(t, 2024, w.TakenAt.Year())
}
