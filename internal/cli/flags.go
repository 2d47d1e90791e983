package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	Repos   string `long:"repos" description:"Path to repository registry (overrides config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// FetchCommand — fetch the current traffic window for each tracked
// repository and append the raw response to its store.
type FetchCommand struct {
	Repo []string `long:"repo" description:"Limit to repository display name (repeatable)"`

	globals *GlobalFlags
	version string
}

// ReportCommand — reconstruct stores and print per-repository summaries.
type ReportCommand struct {
	Repo []string `long:"repo" description:"Limit to repository display name (repeatable)"`

	globals *GlobalFlags
	version string
}

// ChartCommand — render views and delta SVG charts per repository.
type ChartCommand struct {
	Repo []string `long:"repo" description:"Limit to repository display name (repeatable)"`
	Out  string   `long:"out" description:"Override chart output directory"`

	globals *GlobalFlags
	version string
}

// SnapshotCommand — materialize canonical series into the SQLite snapshot.
type SnapshotCommand struct {
	Repo []string `long:"repo" description:"Limit to repository display name (repeatable)"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show store files, record counts, and snapshot statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// MigrateCommand — rewrite legacy concatenated stores as NDJSON.
type MigrateCommand struct {
	Repo []string `long:"repo" description:"Limit to repository display name (repeatable)"`

	globals *GlobalFlags
	version string
}

// WatchCommand — watch the store directory and re-render charts on change.
type WatchCommand struct {
	Debounce string `long:"debounce" description:"Quiet period before re-rendering (e.g., 2s, 500ms)" default:"2s"`

	globals *GlobalFlags
	version string
}
