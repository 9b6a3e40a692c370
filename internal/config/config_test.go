package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if cfg.Fsync != "always" {
		t.Fatalf("unexpected fsync mode: %q", cfg.Fsync)
	}
	if cfg.Bootstrap.Token != "" || cfg.Bootstrap.Admin != "" {
		t.Fatalf("bootstrap must be empty by default: %+v", cfg.Bootstrap)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	body := `{"httpAddr":":9090","fsync":"interval","bootstrap":{"token":"TOKEN_A","admin":"GADMIN"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.Fsync != "interval" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Bootstrap.Admin != "GADMIN" {
		t.Fatalf("bootstrap not applied: %+v", cfg.Bootstrap)
	}
	// untouched fields keep defaults
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "httpAddr: \":7070\"\nlogFormat: json\nbootstrap:\n  token: TOKEN_B\n  admin: GADMIN2\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Bootstrap.Token != "TOKEN_B" {
		t.Fatalf("bootstrap not applied: %+v", cfg.Bootstrap)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv("VESTFLOW_HTTP_ADDR", ":6060")
	t.Setenv("VESTFLOW_FSYNC_INTERVAL_MS", "25")
	t.Setenv("VESTFLOW_BOOTSTRAP_ADMIN", "GENVADMIN")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.HTTPAddr != ":6060" {
		t.Fatalf("env overlay missed http addr: %q", cfg.HTTPAddr)
	}
	if cfg.FsyncIntervalMs != 25 {
		t.Fatalf("env overlay missed fsync interval: %d", cfg.FsyncIntervalMs)
	}
	if cfg.Bootstrap.Admin != "GENVADMIN" {
		t.Fatalf("env overlay missed bootstrap admin: %q", cfg.Bootstrap.Admin)
	}
}

func TestFromEnvIgnoresInvalidInterval(t *testing.T) {
	t.Setenv("VESTFLOW_FSYNC_INTERVAL_MS", "not-a-number")
	cfg := Default()
	FromEnv(&cfg)
	if cfg.FsyncIntervalMs != 5 {
		t.Fatalf("invalid interval should keep default, got %d", cfg.FsyncIntervalMs)
	}
}
