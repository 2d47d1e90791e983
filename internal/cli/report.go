package cli

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/runnerr0/trafficlog/internal/report"
)

// repoReportJSON is the JSON output structure for one repository's report.
type repoReportJSON struct {
	DisplayName    string    `json:"display_name"`
	FullName       string    `json:"full_name"`
	Days           int       `json:"days"`
	FirstDay       string    `json:"first_day,omitempty"`
	LastDay        string    `json:"last_day,omitempty"`
	TotalViews     int       `json:"total_views"`
	TotalUniques   int       `json:"total_uniques"`
	MeanViews      float64   `json:"mean_daily_views"`
	MeanUniques    float64   `json:"mean_daily_uniques"`
	PeakViews      *peakJSON `json:"peak_views,omitempty"`
	PeakUniques    *peakJSON `json:"peak_uniques,omitempty"`
	RecordsRead    int       `json:"records_read"`
	RecordsSkipped int       `json:"records_skipped"`
	Error          string    `json:"error,omitempty"`
}

type peakJSON struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
	e, err := loadEnv(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithEnv(e)
}

// executeWithEnv runs the report against a provided environment (for testing).
func (c *ReportCommand) executeWithEnv(e *env) error {
	repos, err := selectRepos(e.Registry, c.Repo)
	if err != nil {
		return err
	}

	var out []repoReportJSON
	var failed int

	for _, repo := range repos {
		rec, err := reconstructRepo(e.StoreDir, repo)
		if err != nil {
			failed++
			log.WithField("repo", repo.DisplayName).Warnf("reconstruction failed: %v", err)
			if c.globals != nil && c.globals.JSON {
				out = append(out, repoReportJSON{
					DisplayName: repo.DisplayName,
					FullName:    repo.FullName(),
					Error:       err.Error(),
				})
			} else {
				fmt.Printf("%s: no readable store (%v)\n\n", repo.DisplayName, err)
			}
			continue
		}

		if c.globals != nil && c.globals.JSON {
			out = append(out, toReportJSON(rec))
		} else {
			fmt.Print(report.Summary(repo.DisplayName, rec.Metrics))
			if rec.RecordsSkipped > 0 {
				fmt.Printf("Warning: %d of %d records were skipped as unparseable; totals exclude them.\n",
					rec.RecordsSkipped, rec.RecordsRead)
			}
			fmt.Println()
		}
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	}

	if failed == len(repos) {
		return fmt.Errorf("no readable store for any of the %d repositories", len(repos))
	}
	return nil
}

func toReportJSON(rec *reconstruction) repoReportJSON {
	m := rec.Metrics
	out := repoReportJSON{
		DisplayName:    rec.Repo.DisplayName,
		FullName:       rec.Repo.FullName(),
		Days:           m.Days,
		TotalViews:     m.TotalCount,
		TotalUniques:   m.TotalUniques,
		MeanViews:      m.MeanCount,
		MeanUniques:    m.MeanUniques,
		RecordsRead:    rec.RecordsRead,
		RecordsSkipped: rec.RecordsSkipped,
	}
	if m.Days > 0 {
		out.FirstDay = m.FirstDay.Format("2006-01-02")
		out.LastDay = m.LastDay.Format("2006-01-02")
		out.PeakViews = &peakJSON{Day: m.PeakCount.Day.Format("2006-01-02"), Value: m.PeakCount.Value}
		out.PeakUniques = &peakJSON{Day: m.PeakUniques.Day.Format("2006-01-02"), Value: m.PeakUniques.Value}
	}
	return out
}
