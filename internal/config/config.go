package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/trafficlog/config.yaml"

// Config holds all trafficlog configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Charts   ChartsConfig   `yaml:"charts"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig locates the per-repository store files and the registry.
type StorageConfig struct {
	Path      string `yaml:"path"`
	ReposFile string `yaml:"repos_file"`
}

// ChartsConfig controls SVG chart output.
type ChartsConfig struct {
	Dir    string `yaml:"dir"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// SnapshotConfig locates the SQLite snapshot database.
type SnapshotConfig struct {
	SQLiteFile string `yaml:"sqlite_file"`
}

// APIConfig configures the traffic endpoint the fetch command calls.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	TokenEnv       string `yaml:"token_env"`
}

// LoggingConfig configures logrus output and optional file rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// StorageDir returns the storage path with ~ expanded.
func (c *Config) StorageDir() (string, error) {
	return expandPath(c.Storage.Path)
}

// ChartsDir returns the chart output path with ~ expanded.
func (c *Config) ChartsDir() (string, error) {
	return expandPath(c.Charts.Dir)
}

// SnapshotPath returns the snapshot database path with ~ expanded.
func (c *Config) SnapshotPath() (string, error) {
	return expandPath(c.Snapshot.SQLiteFile)
}
