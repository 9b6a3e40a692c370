package config

import (
	"os"
	"strconv"
)

// FromEnv overlays VESTFLOW_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("VESTFLOW_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("VESTFLOW_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("VESTFLOW_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("VESTFLOW_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("VESTFLOW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("VESTFLOW_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("VESTFLOW_BOOTSTRAP_TOKEN"); v != "" {
		cfg.Bootstrap.Token = v
	}
	if v := os.Getenv("VESTFLOW_BOOTSTRAP_ADMIN"); v != "" {
		cfg.Bootstrap.Admin = v
	}
}
