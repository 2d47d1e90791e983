package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/runnerr0/trafficlog/internal/report"
)

// Execute implements the go-flags Commander interface for ChartCommand.
func (c *ChartCommand) Execute(args []string) error {
	e, err := loadEnv(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithEnv(e)
}

// executeWithEnv renders charts against a provided environment (for testing).
func (c *ChartCommand) executeWithEnv(e *env) error {
	repos, err := selectRepos(e.Registry, c.Repo)
	if err != nil {
		return err
	}

	outDir := c.Out
	if outDir == "" {
		outDir, err = e.Config.ChartsDir()
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	opts := report.ChartOptions{
		Width:  e.Config.Charts.Width,
		Height: e.Config.Charts.Height,
	}

	var failed int
	for _, repo := range repos {
		rec, err := reconstructRepo(e.StoreDir, repo)
		if err != nil {
			failed++
			log.WithField("repo", repo.DisplayName).Warnf("chart failed: %v", err)
			continue
		}
		if err := renderRepoCharts(outDir, rec, opts); err != nil {
			failed++
			log.WithField("repo", repo.DisplayName).Warnf("chart failed: %v", err)
		}
	}

	if failed == len(repos) {
		return fmt.Errorf("chart rendering failed for all %d repositories", len(repos))
	}
	return nil
}

// renderRepoCharts writes the two SVGs for one reconstructed repository.
// An empty series is reported as skipped, not rendered as a blank chart.
func renderRepoCharts(outDir string, rec *reconstruction, opts report.ChartOptions) error {
	displayName := rec.Repo.DisplayName
	viewsFile, deltasFile := chartFileNames(displayName)

	if err := writeChart(filepath.Join(outDir, viewsFile), func(f *os.File) error {
		return report.ViewsChart(f, displayName, rec.Series, rec.Metrics, opts)
	}); err != nil {
		if errors.Is(err, report.ErrNoData) {
			fmt.Printf("%s: no data, skipping charts\n", displayName)
			return nil
		}
		return err
	}

	if err := writeChart(filepath.Join(outDir, deltasFile), func(f *os.File) error {
		return report.DeltaChart(f, displayName, rec.Metrics, opts)
	}); err != nil {
		return err
	}

	fmt.Printf("%s: wrote %s and %s\n", displayName, viewsFile, deltasFile)
	return nil
}

// writeChart renders into a temp file and renames it into place so watchers
// and web servers never see a half-written SVG.
func writeChart(path string, render func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
