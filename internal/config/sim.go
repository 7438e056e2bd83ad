// Package config loads the simulation YAML config and the designer
// tunables blob. Missing files fall back to defaults so a bare checkout
// runs without setup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sim holds all configuration for the simulation process.
type Sim struct {
	// Fixed simulation rate in ticks per second.
	TickRate int `yaml:"tick_rate"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug panel. Empty disables the server entirely.
	DebugBindAddress string `yaml:"debug_bind_address"`

	// Content paths
	LevelPath    string `yaml:"level_path"`
	TunablesPath string `yaml:"tunables_path"`

	// WatchTunables reloads the tunables file on change.
	WatchTunables bool `yaml:"watch_tunables"`
}

// DefaultSim returns Sim config with sensible defaults.
func DefaultSim() Sim {
	return Sim{
		TickRate:         30,
		LogLevel:         "info",
		DebugBindAddress: "127.0.0.1:8787",
		LevelPath:        "data/level.yaml",
		TunablesPath:     "data/tunables.json",
		WatchTunables:    true,
	}
}

// LoadSim loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSim(path string) (Sim, error) {
	cfg := DefaultSim()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.TickRate <= 0 {
		return cfg, fmt.Errorf("config %s: tick_rate must be positive, got %d", path, cfg.TickRate)
	}

	return cfg, nil
}
