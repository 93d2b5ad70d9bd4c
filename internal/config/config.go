package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Environment string

	EngineURL        string
	EngineTimeoutSec int
	FrameTimeoutSec  int

	DataDir  string
	DBPath   string
	HTTPAddr string

	AutosaveCron  string
	WatchSources  bool
	PickerEnabled bool
}

func FromEnv() Config {
	dataDir := stringOrDefault("TLC_DATA_DIR", "./cache")
	dbPath := stringOrDefault("TLC_DB_PATH", filepath.Join(dataDir, "cases.sqlite"))

	return Config{
		Environment:      stringOrDefault("TLC_ENV", "development"),
		EngineURL:        stringOrDefault("TLC_ENGINE_URL", "http://localhost:8388"),
		EngineTimeoutSec: intOrDefault("TLC_ENGINE_TIMEOUT_SECONDS", 8),
		FrameTimeoutSec:  intOrDefault("TLC_FRAME_TIMEOUT_SECONDS", 4),
		DataDir:          dataDir,
		DBPath:           dbPath,
		HTTPAddr:         stringOrDefault("TLC_HTTP_ADDR", ":8388"),
		AutosaveCron:     strings.TrimSpace(os.Getenv("TLC_AUTOSAVE_CRON")),
		WatchSources:     boolOrDefault("TLC_WATCH_SOURCES", true),
		PickerEnabled:    boolOrDefault("TLC_PICKER_ENABLED", true),
	}
}

func stringOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func boolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
