package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir is the directory holding the Pebble store. Empty means the
	// OS-specific default from DefaultDataDir.
	DataDir string `json:"dataDir" yaml:"dataDir"`
	// HTTPAddr is the REST API listen address.
	HTTPAddr string `json:"httpAddr" yaml:"httpAddr"`
	// Fsync selects WAL durability: "always", "interval", or "never".
	Fsync string `json:"fsync" yaml:"fsync"`
	// FsyncIntervalMs is the group-commit window when Fsync is "interval".
	FsyncIntervalMs int `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`
	// LogLevel is one of debug|info|warn|error.
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	// LogFormat is one of text|json.
	LogFormat string `json:"logFormat" yaml:"logFormat"`
	// Bootstrap optionally initializes the engine config on startup.
	Bootstrap Bootstrap `json:"bootstrap" yaml:"bootstrap"`
}

// Bootstrap names the token service and admin addresses to install with the
// one-time init call when the server starts against a fresh store. Both must
// be set for bootstrap to run; an already-initialized store is left alone.
type Bootstrap struct {
	Token string `json:"token" yaml:"token"`
	Admin string `json:"admin" yaml:"admin"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		Fsync:           "always",
		FsyncIntervalMs: 5,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
