package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/runnerr0/trafficlog/internal/config"
	"github.com/runnerr0/trafficlog/internal/logging"
	"github.com/runnerr0/trafficlog/internal/series"
	"github.com/runnerr0/trafficlog/internal/snapshot"
	"github.com/runnerr0/trafficlog/internal/trafficstore"
)

// env bundles everything a command needs from the configuration surface.
type env struct {
	Config   *config.Config
	Registry *config.Registry
	StoreDir string
}

// loadEnv loads config and registry per global flags and configures logging.
func loadEnv(globals *GlobalFlags) (*env, error) {
	var cfg *config.Config
	var err error

	if globals.Config != "" {
		cfg, err = config.LoadOrCreateAt(globals.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, err
	}

	logging.Setup(cfg.Logging, globals.Verbose)

	reposFile := cfg.Storage.ReposFile
	if globals.Repos != "" {
		reposFile = globals.Repos
	}
	registry, err := config.LoadRegistry(reposFile)
	if err != nil {
		return nil, err
	}

	storeDir, err := cfg.StorageDir()
	if err != nil {
		return nil, err
	}

	return &env{Config: cfg, Registry: registry, StoreDir: storeDir}, nil
}

// selectRepos resolves --repo filters against the registry. With no filter,
// every tracked repository is returned.
func selectRepos(registry *config.Registry, names []string) ([]config.Repo, error) {
	if len(names) == 0 {
		return registry.Repositories, nil
	}

	var repos []config.Repo
	for _, name := range names {
		repo, ok := registry.Find(name)
		if !ok {
			return nil, fmt.Errorf("repository %q is not in the registry", name)
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// reconstruction is the result of reading one repository's store end to end.
type reconstruction struct {
	Repo           config.Repo
	Series         series.CanonicalSeries
	Metrics        series.Metrics
	RecordsRead    int
	RecordsSkipped int
}

// reconstructRepo reads a store, parses its records, and merges them into a
// canonical series with derived metrics. Records that fail to parse are
// skipped with a logged warning so one bad append never hides the rest of
// the history; the skip count is carried so callers can surface it.
func reconstructRepo(storeDir string, repo config.Repo) (*reconstruction, error) {
	store := trafficstore.Open(storeDir, repo.DisplayName)

	raws, err := store.ReadRecords()
	if err != nil {
		return nil, err
	}

	records, parseErrs := series.ParseAll(raws)
	for _, pe := range parseErrs {
		log.WithField("repo", repo.DisplayName).Warnf("skipping unparseable record: %v", pe)
	}

	cs := series.Merge(records)
	return &reconstruction{
		Repo:           repo,
		Series:         cs,
		Metrics:        series.Compute(cs),
		RecordsRead:    len(raws),
		RecordsSkipped: len(parseErrs),
	}, nil
}

// openSnapshotStore opens the configured snapshot database with migrations
// applied.
func openSnapshotStore(cfg *config.Config) (*snapshot.SQLiteStore, *sql.DB, error) {
	dbPath, err := cfg.SnapshotPath()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot database: %w", err)
	}

	runner := snapshot.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := snapshot.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init snapshot store: %w", err)
	}

	return store, db, nil
}

// chartFileNames returns the views and delta chart filenames for a
// repository, matching the historical lowercase naming.
func chartFileNames(displayName string) (string, string) {
	base := strings.ToLower(displayName)
	return base + "_views.svg", base + "_deltas.svg"
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
