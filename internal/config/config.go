// Package config loads the .clara/config.json file that governs both
// logging (internal/logging) and a handful of engine-level tunables.
// Mirrors the teacher's own JSON-backed config loader
// (internal/logging.loadConfig): a missing file is not an error, it just
// yields defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LoggingConfig mirrors internal/logging's own loggingConfig shape so the
// two packages can share one file without internal/logging importing this
// package (avoiding a cycle, since internal/logging is lower-level and
// loads its own copy of this block directly).
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories"`
	Level      string          `json:"level"`
	JSONFormat bool            `json:"json_format"`
}

// EngineConfig holds tunables for the rule engine itself.
type EngineConfig struct {
	// MaxFactLimit is the configured working-memory size threshold,
	// modelled on the teacher's internal/mangle.Engine fact-count warning.
	// No engine code reads it: no warning is logged when working memory
	// grows past it.
	MaxFactLimit int `json:"max_fact_limit"`

	// DefaultActivationGroup is the configured default salience. Rule
	// construction does not read it: a rule that sets no salience has
	// salience 0.
	DefaultActivationGroup int `json:"default_activation_group"`
}

// Config is the top-level .clara/config.json document.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Engine  EngineConfig  `json:"engine"`
}

// Default returns the configuration used when no config file is present:
// logging disabled, no fact limit warning, salience 0 as the default group.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{DebugMode: false, Level: "info"},
		Engine:  EngineConfig{MaxFactLimit: 0, DefaultActivationGroup: 0},
	}
}

// Load reads .clara/config.json under workspaceRoot. A missing file
// returns Default() with a nil error, matching the teacher's "absent
// config means production mode" behavior.
func Load(workspaceRoot string) (*Config, error) {
	path := filepath.Join(workspaceRoot, ".clara", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	return cfg, nil
}
