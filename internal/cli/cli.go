// Package cli implements the trafficlog command-line interface.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Fetch    *FetchCommand
	Report   *ReportCommand
	Chart    *ChartCommand
	Snapshot *SnapshotCommand
	Status   *StatusCommand
	Migrate  *MigrateCommand
	Watch    *WatchCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "trafficlog"
	parser.LongDescription = "Collect GitHub repository traffic counters into append-only logs and render them as daily series, charts, and summaries."

	cmds := &commands{
		Fetch:    &FetchCommand{globals: &globals, version: version},
		Report:   &ReportCommand{globals: &globals, version: version},
		Chart:    &ChartCommand{globals: &globals, version: version},
		Snapshot: &SnapshotCommand{globals: &globals, version: version},
		Status:   &StatusCommand{globals: &globals, version: version},
		Migrate:  &MigrateCommand{globals: &globals, version: version},
		Watch:    &WatchCommand{globals: &globals, version: version},
	}

	parser.AddCommand("fetch", "Fetch and append traffic counters", "Fetch the current 14-day views window for each tracked repository and append the raw response to its store.", cmds.Fetch)
	parser.AddCommand("report", "Print per-repository summaries", "Reconstruct each store into a deduplicated daily series and print summary statistics.", cmds.Report)
	parser.AddCommand("chart", "Render SVG charts", "Render views and day-over-day delta charts for each tracked repository.", cmds.Chart)
	parser.AddCommand("snapshot", "Write the SQLite snapshot", "Materialize the canonical daily series into the SQLite snapshot database.", cmds.Snapshot)
	parser.AddCommand("status", "Show stores and snapshot statistics", "Show store files, formats, record counts, and snapshot database statistics.", cmds.Status)
	parser.AddCommand("migrate", "Migrate legacy stores to NDJSON", "Rewrite legacy concatenated-JSON stores in the newline-delimited native format.", cmds.Migrate)
	parser.AddCommand("watch", "Re-render charts on store changes", "Watch the store directory and re-render charts when a store file changes.", cmds.Watch)

	return parser, &globals, cmds
}

// Run is the main entry point for the trafficlog CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("trafficlog %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
