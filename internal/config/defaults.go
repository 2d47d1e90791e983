package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:      "~/.config/trafficlog/stores",
			ReposFile: "~/.config/trafficlog/repos.json",
		},
		Charts: ChartsConfig{
			Dir:    "~/.config/trafficlog/graphs",
			Width:  1024,
			Height: 600,
		},
		Snapshot: SnapshotConfig{
			SQLiteFile: "~/.config/trafficlog/traffic.db",
		},
		API: APIConfig{
			BaseURL:        "https://api.github.com",
			TimeoutSeconds: 30,
			TokenEnv:       "GITHUB_TOKEN",
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
