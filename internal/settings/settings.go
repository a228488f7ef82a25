// Package settings reads process-level settings from the environment: where
// the ledger directory lives, how to log, and where the API listens. Ledger
// policy itself lives in coffer.yaml, not here.
package settings

import (
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envDir    = "COFFER_DIR"
	envLevel  = "COFFER_LOG_LEVEL"
	envFormat = "COFFER_LOG_FORMAT"
	envAddr   = "COFFER_LISTEN_ADDR"
)

// Settings carries the resolved environment configuration.
type Settings struct {
	LedgerDir  string
	LogLevel   slog.Level
	LogFormat  string
	ListenAddr string
}

// Load reads settings from the environment. A .env file in the working
// directory is honored when present.
func Load() *Settings {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	viper.SetDefault(envDir, ".")
	viper.SetDefault(envLevel, "info")
	viper.SetDefault(envFormat, "text")
	viper.SetDefault(envAddr, "localhost:8372")
	viper.AutomaticEnv()

	return &Settings{
		LedgerDir:  viper.GetString(envDir),
		LogLevel:   parseLevel(viper.GetString(envLevel)),
		LogFormat:  strings.ToLower(viper.GetString(envFormat)),
		ListenAddr: viper.GetString(envAddr),
	}
}

// NewLogger builds a slog.Logger per the settings, writing to stderr.
func (s *Settings) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("warning: unknown log level %q, using info", s)
		return slog.LevelInfo
	}
}
