// Package config holds the simulator's TOML-backed configuration: cycle
// budget, default launch geometry, memory sizes, and trace/statistics
// toggles.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the simulator's persisted configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles        uint64 `toml:"max_cycles"`
		DefaultNumBlocks uint32 `toml:"default_num_blocks"`
		DefaultNumWarps  uint32 `toml:"default_num_warps"`
	} `toml:"execution"`

	// Memory settings
	Memory struct {
		InstructionSize uint32 `toml:"instruction_size"`
		DataSize        uint32 `toml:"data_size"`
	} `toml:"memory"`

	// Trace settings
	Trace struct {
		Enable     bool   `toml:"enable"`
		OutputFile string `toml:"output_file"`
	} `toml:"trace"`

	// Statistics settings
	Statistics struct {
		Enable     bool   `toml:"enable"`
		OutputFile string `toml:"output_file"`
		Format     string `toml:"format"` // json, csv, html
	} `toml:"statistics"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Execution defaults
	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.DefaultNumBlocks = 1
	cfg.Execution.DefaultNumWarps = 1

	// Memory defaults
	cfg.Memory.InstructionSize = 1 << 16
	cfg.Memory.DataSize = 1 << 16

	// Trace defaults
	cfg.Trace.Enable = false
	cfg.Trace.OutputFile = "trace.log"

	// Statistics defaults
	cfg.Statistics.Enable = false
	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"

	return cfg
}

// GetConfigPath returns the platform-specific config file path, creating
// its parent directory if needed.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\gpusim\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "gpusim")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/gpusim/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "gpusim")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back to
// defaults if the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
