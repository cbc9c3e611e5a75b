package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/omnishop/omnishop/internal/config"
)

// TS01: config init writes a loadable template
func TestConfigInit(t *testing.T) {
	dataDir := t.TempDir()

	out, err := execute(t, "config", "init", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote config template")

	path := filepath.Join(dataDir, "config.yaml")
	require.FileExists(t, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "first-above-threshold", cfg.Corpus.PricePolicy)
	assert.Equal(t, 0.7, cfg.Search.Weights.Semantic)
}

// TS02: init refuses to clobber without --force
func TestConfigInit_NoOverwrite(t *testing.T) {
	dataDir := t.TempDir()

	_, err := execute(t, "config", "init", "--data-dir", dataDir)
	require.NoError(t, err)

	_, err = execute(t, "config", "init", "--data-dir", dataDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = execute(t, "config", "init", "--data-dir", dataDir, "--force")
	assert.NoError(t, err)
}

// TS03: config show emits the effective configuration
func TestConfigShow(t *testing.T) {
	dataDir := t.TempDir()

	out, err := execute(t, "config", "show", "--data-dir", dataDir)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, dataDir, cfg.Index.DataDir)
	assert.Equal(t, "single", cfg.Index.Strategy)
}
