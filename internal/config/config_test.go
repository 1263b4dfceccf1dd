package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  path: /tmp/custom.db
scan:
  concurrency: 8
  batch_size: 50
graph:
  hub_degree_threshold: 10
  cluster_min_size: 2
api:
  enabled: false
  addr: localhost:8686
`), 0o644))

	cfg, err := LoadFromYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Store.Path)
	assert.Equal(t, 8, cfg.Scan.Concurrency)
}

func TestLoadFromYAMLOrDefaultFallsBackWhenMissing(t *testing.T) {
	cfg, err := LoadFromYAMLOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Scan, cfg.Scan)
}

func TestValidateRejectsGitSyncEnabledWithoutRepoURL(t *testing.T) {
	cfg := Default()
	cfg.GitSync.Enabled = true
	assert.Error(t, cfg.Validate())
}
