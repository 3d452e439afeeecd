package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "GRPC_PORT", "LOG_LEVEL", "MMDB_PATH", "STATS_DIR", "FETCH_TIMEOUT", "DOCS_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.FetchTimeout != 60*time.Second {
		t.Errorf("expected 60s fetch timeout, got %s", cfg.FetchTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
	if cfg.GRPCPort != "" || cfg.StatsDir != "" || cfg.MMDBPath != "" {
		t.Errorf("expected optional settings to be empty, got %+v", cfg)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PORT=7070\nGRPC_PORT=9000\nLOG_LEVEL=debug\nSTATS_DIR=/var/lib/rirroutes\nFETCH_TIMEOUT=15s\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() {
		for _, k := range []string{"GRPC_PORT", "LOG_LEVEL", "STATS_DIR", "FETCH_TIMEOUT"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected environment to win with port 9090, got %s", cfg.Port)
	}
	if cfg.GRPCPort != "9000" {
		t.Errorf("expected grpc port 9000, got %s", cfg.GRPCPort)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
	if cfg.StatsDir != "/var/lib/rirroutes" {
		t.Errorf("unexpected stats dir %s", cfg.StatsDir)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Errorf("expected 15s, got %s", cfg.FetchTimeout)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("FETCH_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid FETCH_TIMEOUT")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
