package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/trafficlog/internal/config"
	"github.com/runnerr0/trafficlog/internal/trafficstore"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupEnv builds a command environment rooted in a temp directory with two
// tracked repositories.
func setupEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	storeDir := filepath.Join(dir, "stores")
	require.NoError(t, os.MkdirAll(storeDir, 0755))

	cfg := config.DefaultConfig()
	cfg.Storage.Path = storeDir
	cfg.Charts.Dir = filepath.Join(dir, "graphs")
	cfg.Snapshot.SQLiteFile = filepath.Join(dir, "traffic.db")
	cfg.Logging.Level = "error"

	registry := &config.Registry{Repositories: []config.Repo{
		{Owner: "acme", Name: "widget", DisplayName: "Widget"},
		{Owner: "acme", Name: "gadget", DisplayName: "Gadget"},
	}}

	return &env{Config: cfg, Registry: registry, StoreDir: storeDir}
}

// seedStore appends the given raw records to a repository's store.
func seedStore(t *testing.T, storeDir, displayName string, blobs ...string) {
	t.Helper()
	store := trafficstore.Open(storeDir, displayName)
	for _, blob := range blobs {
		require.NoError(t, store.Append([]byte(blob)))
	}
}

// widgetRecord is a minimal valid two-day fetch response.
const widgetRecord = `{"count":30,"uniques":12,"views":[` +
	`{"timestamp":"2024-01-01T00:00:00Z","count":10,"uniques":5},` +
	`{"timestamp":"2024-01-02T00:00:00Z","count":20,"uniques":7}]}`
