package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/trafficlog/internal/snapshot"
	"github.com/runnerr0/trafficlog/internal/trafficstore"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version  string            `json:"version"`
	StoreDir string            `json:"store_dir"`
	Stores   []storeStatusJSON `json:"stores"`
	Snapshot []repoStatsJSON   `json:"snapshot,omitempty"`
}

type storeStatusJSON struct {
	DisplayName string `json:"display_name"`
	Path        string `json:"path"`
	Format      string `json:"format"`
	SizeBytes   int64  `json:"size_bytes"`
	Records     int    `json:"records"`
	Missing     bool   `json:"missing,omitempty"`
}

type repoStatsJSON struct {
	DisplayName  string `json:"display_name"`
	Days         int64  `json:"days"`
	TotalViews   int64  `json:"total_views"`
	TotalUniques int64  `json:"total_uniques"`
	FirstDay     string `json:"first_day,omitempty"`
	LastDay      string `json:"last_day,omitempty"`
	TakenAt      string `json:"taken_at,omitempty"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	e, err := loadEnv(c.globals)
	if err != nil {
		return err
	}

	// Snapshot stats are optional: status still works before the first
	// snapshot has ever been written.
	var snapStats *snapshot.Stats
	if store, db, err := openSnapshotStore(e.Config); err == nil {
		snapStats, _ = store.GetStats(context.Background())
		store.Close()
		db.Close()
	}

	return c.executeWithEnv(e, snapStats)
}

// executeWithEnv runs status against a provided environment (for testing).
func (c *StatusCommand) executeWithEnv(e *env, snapStats *snapshot.Stats) error {
	var stores []storeStatusJSON
	for _, repo := range e.Registry.Repositories {
		store := trafficstore.Open(e.StoreDir, repo.DisplayName)
		info, err := store.Stat()
		entry := storeStatusJSON{
			DisplayName: repo.DisplayName,
			Path:        info.Path,
			Format:      string(info.Format),
			SizeBytes:   info.SizeBytes,
			Records:     info.Records,
		}
		if err != nil {
			entry.Missing = true
		}
		stores = append(stores, entry)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(e, stores, snapStats)
	}
	return c.printHuman(e, stores, snapStats)
}

func (c *StatusCommand) printHuman(e *env, stores []storeStatusJSON, snapStats *snapshot.Stats) error {
	fmt.Println("Trafficlog Status")
	fmt.Println("=================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Store dir:     %s\n", e.StoreDir)
	fmt.Printf("Repositories:  %d\n", len(e.Registry.Repositories))
	fmt.Println()

	fmt.Println("Stores:")
	for _, s := range stores {
		if s.Missing {
			fmt.Printf("  %-20s (no store yet)\n", s.DisplayName)
			continue
		}
		records := fmt.Sprintf("%d records", s.Records)
		if s.Records < 0 {
			records = "unreadable records"
		}
		fmt.Printf("  %-20s %-7s %-10s %s\n", s.DisplayName, s.Format, formatBytes(s.SizeBytes), records)
	}

	if snapStats != nil && len(snapStats.Repos) > 0 {
		fmt.Println()
		fmt.Println("Snapshot:")
		for _, r := range snapStats.Repos {
			if r.Days == 0 {
				fmt.Printf("  %-20s no data\n", r.DisplayName)
				continue
			}
			fmt.Printf("  %-20s %d days, %s views, %s uniques (%s to %s)\n",
				r.DisplayName, r.Days,
				humanize.Comma(r.TotalCount), humanize.Comma(r.TotalUniques),
				r.FirstDay.Format("2006-01-02"), r.LastDay.Format("2006-01-02"))
		}
	}

	return nil
}

func (c *StatusCommand) printJSON(e *env, stores []storeStatusJSON, snapStats *snapshot.Stats) error {
	out := statusJSON{
		Version:  c.version,
		StoreDir: e.StoreDir,
		Stores:   stores,
	}

	if snapStats != nil {
		for _, r := range snapStats.Repos {
			entry := repoStatsJSON{
				DisplayName:  r.DisplayName,
				Days:         r.Days,
				TotalViews:   r.TotalCount,
				TotalUniques: r.TotalUniques,
			}
			if r.Days > 0 {
				entry.FirstDay = r.FirstDay.Format("2006-01-02")
				entry.LastDay = r.LastDay.Format("2006-01-02")
			}
			if !r.TakenAt.IsZero() {
				entry.TakenAt = r.TakenAt.UTC().Format(time.RFC3339)
			}
			out.Snapshot = append(out.Snapshot, entry)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
