// Package config resolves runtime settings from the environment.
// An optional .env file in the working directory is loaded first.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir  = "POCKET_DATA_DIR"
	EnvBackend  = "POCKET_BACKEND"
	EnvLogLevel = "POCKET_LOG_LEVEL"
	EnvLogJSON  = "POCKET_LOG_JSON"
	EnvTheme    = "POCKET_THEME"
	EnvColor    = "POCKET_COLOR"

	logFileName = "pocket.log"
)

type Config struct {
	DataDir  string
	Backend  string // "file" | "sqlite"
	LogLevel string
	LogJSON  bool
	Theme    string // "classic" | "neon" | "mono"
	Color    string // "auto" | "always" | "never"
}

// Load reads .env (if present) and the POCKET_* variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := strings.TrimSpace(os.Getenv(EnvDataDir))
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("home: %w", err)
		}
		dataDir = filepath.Join(home, ".pocket")
	}

	cfg := &Config{
		DataDir:  dataDir,
		Backend:  envOr(EnvBackend, "file"),
		LogLevel: envOr(EnvLogLevel, "info"),
		Theme:    envOr(EnvTheme, "classic"),
		Color:    envOr(EnvColor, "auto"),
	}
	if v := os.Getenv(EnvLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogJSON, err)
		}
		cfg.LogJSON = b
	}
	return cfg, nil
}

// LogPath is where interactive sessions write their log.
func (c *Config) LogPath() string { return filepath.Join(c.DataDir, logFileName) }

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
