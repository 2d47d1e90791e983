package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/runnerr0/trafficlog/internal/report"
)

// Execute implements the go-flags Commander interface for WatchCommand.
//
// The watcher re-renders a repository's charts after its store file settles:
// collector appends arrive as short bursts of writes, so renders are
// debounced per repository.
func (c *WatchCommand) Execute(args []string) error {
	e, err := loadEnv(c.globals)
	if err != nil {
		return err
	}

	debounce, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return fmt.Errorf("invalid --debounce value %q: %w", c.Debounce, err)
	}

	outDir, err := e.Config.ChartsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	if err := os.MkdirAll(e.StoreDir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(e.StoreDir); err != nil {
		return fmt.Errorf("watch %s: %w", e.StoreDir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	opts := report.ChartOptions{
		Width:  e.Config.Charts.Width,
		Height: e.Config.Charts.Height,
	}

	fmt.Printf("Watching %s (debounce %s). Ctrl-C to stop.\n", e.StoreDir, debounce)

	// Pending repos awaiting their debounce deadline.
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, ok := storeDisplayName(e, event.Name)
			if !ok {
				continue
			}
			pending[name] = time.Now().Add(debounce)
			log.WithField("repo", name).Debug("store changed")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch error: %v", err)

		case now := <-ticker.C:
			for name, deadline := range pending {
				if now.Before(deadline) {
					continue
				}
				delete(pending, name)
				repo, ok := e.Registry.Find(name)
				if !ok {
					continue
				}
				rec, err := reconstructRepo(e.StoreDir, repo)
				if err != nil {
					log.WithField("repo", name).Warnf("re-render failed: %v", err)
					continue
				}
				if err := renderRepoCharts(outDir, rec, opts); err != nil {
					log.WithField("repo", name).Warnf("re-render failed: %v", err)
				}
			}

		case <-sigCh:
			fmt.Println("\nStopping watch.")
			return nil
		}
	}
}

// storeDisplayName maps a changed file back to a tracked repository's
// display name. Backup and temp files are ignored.
func storeDisplayName(e *env, path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".json" && ext != ".ndjson" {
		return "", false
	}
	name := strings.TrimSuffix(base, ext)
	repo, ok := e.Registry.Find(name)
	if !ok {
		return "", false
	}
	return repo.DisplayName, true
}
