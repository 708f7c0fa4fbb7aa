package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.LeadWindow != 10*time.Minute || cfg.ScanSchedule != "0 * * * * *" {
		t.Fatalf("unexpected scheduler defaults: %+v", cfg)
	}
	if cfg.DispatchWorkers != 2 || cfg.QueueSize != 64 {
		t.Fatalf("unexpected dispatch defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TODOLIST_DB", "/tmp/custom.db")
	t.Setenv("TODOLIST_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("TODOLIST_LEAD_WINDOW", "15m")
	t.Setenv("TODOLIST_DISPATCH_WORKERS", "4")
	t.Setenv("TODOLIST_QUEUE_SIZE", "-3")
	t.Setenv("TODOLIST_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("TODOLIST_TELEGRAM_TOKEN", "abc")
	t.Setenv("TODOLIST_USER", "ana@example.com")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DBPath != "/tmp/custom.db" || cfg.Timezone != "America/Sao_Paulo" {
		t.Fatalf("unexpected path/zone overrides: %+v", cfg)
	}
	if cfg.LeadWindow != 15*time.Minute || cfg.DispatchWorkers != 4 {
		t.Fatalf("unexpected scheduler overrides: %+v", cfg)
	}
	if cfg.QueueSize != 64 {
		t.Fatalf("non-positive override must be ignored, got %d", cfg.QueueSize)
	}
	if !cfg.DesktopNotifications || cfg.TelegramToken != "abc" || cfg.DefaultUser != "ana@example.com" {
		t.Fatalf("unexpected notification overrides: %+v", cfg)
	}
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "db_path: from-file.db\nlead_window: 5m\nlog_format: json\ndispatch_workers: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TODOLIST_DISPATCH_WORKERS", "6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "from-file.db" || cfg.LeadWindow != 5*time.Minute || cfg.LogFormat != "json" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.DispatchWorkers != 6 {
		t.Fatalf("expected env to win over file, got %d", cfg.DispatchWorkers)
	}
	if cfg.QueueSize != 64 {
		t.Fatalf("expected default for keys absent from file, got %d", cfg.QueueSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TODOLIST_CONFIG", filepath.Join(dir, "absent.yaml"))
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("implicit missing file must fall back to defaults: %v", err)
	}
	if cfg.DBPath != "todolist.db" {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}

	if _, err := Load(filepath.Join(dir, "explicit.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("explicit missing file must fail, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.Timezone = "Mars/Olympus"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid timezone, got %v", err)
	}

	cfg = DefaultRuntimeConfig()
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid log format, got %v", err)
	}

	cfg = DefaultRuntimeConfig()
	cfg.Timezone = "UTC"
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC location, got %v %v", loc, err)
	}
}
