package mcp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config represents the seqmatch configuration file
type Config struct {
	Settings Settings `json:"settings"`
}

// Settings represents seqmatch settings
type Settings struct {
	SearchResultLimit int    `json:"searchResultLimit"` // Number of tools to return per search (default: 5)
	LogLevel          string `json:"logLevel"`          // debug, info, warn or error (default: info)
}

// ConfigPath returns the configuration file location, honoring SEQMATCH_CONFIG.
func ConfigPath() string {
	if path := os.Getenv("SEQMATCH_CONFIG"); path != "" {
		return path
	}
	return ".seqmatch.json"
}

// LoadConfig reads the JSON configuration at path.
// A missing file yields an empty config and no error.
func LoadConfig(path string, logger *slog.Logger) (*Config, error) {
	logger.Info("Looking for config", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("No config found, using defaults", "path", path)
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	logger.Info("Found config", "path", path, "size_bytes", len(data))

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, err := config.Settings.Level(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Level parses LogLevel, defaulting to info.
func (s Settings) Level() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s.LogLevel)
	}
}
