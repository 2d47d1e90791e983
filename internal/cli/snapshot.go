package cli

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/runnerr0/trafficlog/internal/snapshot"
)

// Execute implements the go-flags Commander interface for SnapshotCommand.
func (c *SnapshotCommand) Execute(args []string) error {
	e, err := loadEnv(c.globals)
	if err != nil {
		return err
	}

	store, db, err := openSnapshotStore(e.Config)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(e, store)
}

// executeWithStore writes snapshots against a provided store (for testing).
func (c *SnapshotCommand) executeWithStore(e *env, store *snapshot.SQLiteStore) error {
	repos, err := selectRepos(e.Registry, c.Repo)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var failed int

	for _, repo := range repos {
		rec, err := reconstructRepo(e.StoreDir, repo)
		if err != nil {
			failed++
			log.WithField("repo", repo.DisplayName).Warnf("snapshot skipped: %v", err)
			continue
		}

		meta := snapshot.Meta{
			TakenAt:        time.Now(),
			RecordsRead:    rec.RecordsRead,
			RecordsSkipped: rec.RecordsSkipped,
		}
		if err := store.WriteSeries(ctx, repo, rec.Series, meta); err != nil {
			failed++
			log.WithField("repo", repo.DisplayName).Warnf("snapshot write failed: %v", err)
			continue
		}

		fmt.Printf("Snapshotted %s: %d days\n", repo.DisplayName, rec.Metrics.Days)
	}

	if failed == len(repos) {
		return fmt.Errorf("snapshot failed for all %d repositories", len(repos))
	}
	return nil
}
