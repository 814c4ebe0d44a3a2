package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gpusim/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, uint64(1_000_000), cfg.Execution.MaxCycles)
	assert.Equal(t, uint32(1), cfg.Execution.DefaultNumBlocks)
	assert.Equal(t, uint32(1), cfg.Execution.DefaultNumWarps)
	assert.Equal(t, uint32(1<<16), cfg.Memory.InstructionSize)
	assert.False(t, cfg.Trace.Enable)
	assert.Equal(t, "json", cfg.Statistics.Format)
}

func TestGetConfigPath(t *testing.T) {
	path := config.GetConfigPath()
	require.NotEmpty(t, path)
	assert.Equal(t, "config.toml", filepath.Base(path))

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if path != "config.toml" {
			assert.Equal(t, "gpusim", filepath.Base(dir))
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := config.DefaultConfig()
	cfg.Execution.MaxCycles = 5_000_000
	cfg.Trace.Enable = true
	cfg.Statistics.Format = "csv"

	require.NoError(t, cfg.SaveTo(configPath))
	require.FileExists(t, configPath)

	loaded, err := config.LoadFrom(configPath)
	require.NoError(t, err)

	assert.Equal(t, uint64(5_000_000), loaded.Execution.MaxCycles)
	assert.True(t, loaded.Trace.Enable)
	assert.Equal(t, "csv", loaded.Statistics.Format)
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := config.LoadFrom(configPath)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), cfg.Execution.MaxCycles)
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := "[execution]\nmax_cycles = \"not a number\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(invalidTOML), 0644))

	_, err := config.LoadFrom(configPath)
	assert.Error(t, err)
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.SaveTo(configPath))
	require.FileExists(t, configPath)
}
