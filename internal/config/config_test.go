package config

import (
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TLC_ENV", "")
	t.Setenv("TLC_ENGINE_URL", "")
	t.Setenv("TLC_ENGINE_TIMEOUT_SECONDS", "")
	t.Setenv("TLC_FRAME_TIMEOUT_SECONDS", "")
	t.Setenv("TLC_DATA_DIR", "")
	t.Setenv("TLC_DB_PATH", "")
	t.Setenv("TLC_HTTP_ADDR", "")
	t.Setenv("TLC_AUTOSAVE_CRON", "")
	t.Setenv("TLC_WATCH_SOURCES", "")
	t.Setenv("TLC_PICKER_ENABLED", "")

	cfg := FromEnv()
	if cfg.Environment != "development" {
		t.Fatalf("expected default environment development, got %s", cfg.Environment)
	}
	if cfg.EngineURL != "http://localhost:8388" {
		t.Fatalf("unexpected default engine url: %s", cfg.EngineURL)
	}
	if cfg.EngineTimeoutSec != 8 {
		t.Fatalf("expected default engine timeout 8, got %d", cfg.EngineTimeoutSec)
	}
	if cfg.DBPath != filepath.Join("./cache", "cases.sqlite") {
		t.Fatalf("unexpected default db path: %s", cfg.DBPath)
	}
	if cfg.AutosaveCron != "" {
		t.Fatalf("expected autosave disabled by default, got %s", cfg.AutosaveCron)
	}
	if !cfg.WatchSources {
		t.Fatal("expected source watching enabled by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("TLC_ENGINE_URL", "http://engine.lab:9000/")
	t.Setenv("TLC_ENGINE_TIMEOUT_SECONDS", "30")
	t.Setenv("TLC_WATCH_SOURCES", "off")
	t.Setenv("TLC_AUTOSAVE_CRON", "@every 5m")

	cfg := FromEnv()
	if cfg.EngineURL != "http://engine.lab:9000/" {
		t.Fatalf("unexpected engine url: %s", cfg.EngineURL)
	}
	if cfg.EngineTimeoutSec != 30 {
		t.Fatalf("expected engine timeout 30, got %d", cfg.EngineTimeoutSec)
	}
	if cfg.WatchSources {
		t.Fatal("expected source watching disabled")
	}
	if cfg.AutosaveCron != "@every 5m" {
		t.Fatalf("unexpected autosave cron: %s", cfg.AutosaveCron)
	}
}

func TestIntOrDefaultRejectsGarbage(t *testing.T) {
	t.Setenv("TLC_ENGINE_TIMEOUT_SECONDS", "zero")
	if cfg := FromEnv(); cfg.EngineTimeoutSec != 8 {
		t.Fatalf("expected fallback timeout 8, got %d", cfg.EngineTimeoutSec)
	}
	t.Setenv("TLC_ENGINE_TIMEOUT_SECONDS", "-4")
	if cfg := FromEnv(); cfg.EngineTimeoutSec != 8 {
		t.Fatalf("expected fallback timeout 8 for negative input, got %d", cfg.EngineTimeoutSec)
	}
}
