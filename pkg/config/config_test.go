package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesBuiltInValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "700MiB", cfg.SplitSize)
	assert.Equal(t, 6, cfg.Level)
	assert.False(t, cfg.Store)
}

func TestLoadParsesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splitzip.yaml")
	require.NoError(t, os.WriteFile(path, []byte("split_size: 100MB\nstore: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "100MB", cfg.SplitSize)
	assert.True(t, cfg.Store)
	assert.Equal(t, 6, cfg.Level) // untouched field keeps the default
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMergePrefersOverrideNonZeroFields(t *testing.T) {
	base := Config{SplitSize: "700MiB", Level: 6, Output: "base.zip"}
	override := Config{Level: 9, Verbose: true}

	merged := Merge(base, override)
	assert.Equal(t, "700MiB", merged.SplitSize)
	assert.Equal(t, 9, merged.Level)
	assert.True(t, merged.Verbose)
	assert.Equal(t, "base.zip", merged.Output)
}
