package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/runnerr0/trafficlog/internal/trafficstore"
)

// Execute implements the go-flags Commander interface for MigrateCommand.
func (c *MigrateCommand) Execute(args []string) error {
	e, err := loadEnv(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithEnv(e)
}

// executeWithEnv migrates stores against a provided environment (for testing).
func (c *MigrateCommand) executeWithEnv(e *env) error {
	repos, err := selectRepos(e.Registry, c.Repo)
	if err != nil {
		return err
	}

	var migrated, failed int
	for _, repo := range repos {
		store := trafficstore.Open(e.StoreDir, repo.DisplayName)
		if !store.Exists() {
			continue
		}

		done, err := store.Migrate()
		if err != nil {
			failed++
			log.WithField("repo", repo.DisplayName).Warnf("migration failed: %v", err)
			continue
		}
		if done {
			migrated++
			fmt.Printf("Migrated %s to NDJSON\n", repo.DisplayName)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d store migrations failed", failed)
	}
	if migrated == 0 {
		fmt.Println("No legacy stores to migrate.")
	}
	return nil
}
