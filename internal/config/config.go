// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = "8080"
	defaultFetchTimeout = 60 * time.Second
	defaultDocsURL      = "https://github.com/TomasB/rirroutes#readme"
)

// Config holds the service settings.
type Config struct {
	Port         string
	GRPCPort     string
	LogLevel     slog.Level
	MMDBPath     string
	StatsDir     string
	FetchTimeout time.Duration
	DocsURL      string
}

// Load reads settings from the environment after merging in envFile, if it
// exists. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Port:         getenv("PORT", defaultPort),
		GRPCPort:     os.Getenv("GRPC_PORT"),
		LogLevel:     ParseLogLevel(os.Getenv("LOG_LEVEL")),
		MMDBPath:     os.Getenv("MMDB_PATH"),
		StatsDir:     os.Getenv("STATS_DIR"),
		FetchTimeout: defaultFetchTimeout,
		DocsURL:      getenv("DOCS_URL", defaultDocsURL),
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}

	return cfg, nil
}

// ParseLogLevel converts string log level to slog.Level
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
