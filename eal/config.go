// File: eal/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Immutable runtime configuration. Loadable from a TOML file or built
// programmatically; all fields take effect at Init and cannot change at
// runtime except through the control layer's dynamic store.

package eal

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds parameters immutable per run.
type Config struct {
	// LogLevel selects zap level: debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogFile, when set, routes logs to a rotating file instead of stderr.
	LogFile string `toml:"log_file"`
	// LogMaxSizeMB caps one log file before rotation.
	LogMaxSizeMB int `toml:"log_max_size_mb"`
	// LogMaxBackups caps retained rotated files.
	LogMaxBackups int `toml:"log_max_backups"`
	// Hugepages requests hugepage-backed pool arenas where supported.
	Hugepages bool `toml:"hugepages"`
	// NUMANode is the preferred node hint for arenas and workers; -1 auto.
	NUMANode int `toml:"numa_node"`
	// ReloadWorkers bounds concurrent config-reload listener callbacks.
	ReloadWorkers int `toml:"reload_workers"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		LogMaxSizeMB:  100,
		LogMaxBackups: 5,
		Hugepages:     false,
		NUMANode:      -1,
		ReloadWorkers: 4,
	}
}

// LoadConfig reads a TOML runtime config, overlaying defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("eal: load config %s: %w", path, err)
	}
	return cfg, nil
}
