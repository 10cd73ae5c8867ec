package core

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

type Config struct {
	// StrictMode only allows launches against https FHIR servers, optionally restricted further by an allowlist.
	StrictMode bool `koanf:"strictmode"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `koanf:"loglevel"`
}

func DefaultConfig() Config {
	return Config{
		StrictMode: true,
		LogLevel:   "info",
	}
}

// Level returns the configured log level for the slog and zerolog loggers.
func (c Config) Level() (slog.Level, zerolog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, zerolog.DebugLevel, nil
	case "", "info":
		return slog.LevelInfo, zerolog.InfoLevel, nil
	case "warn", "warning":
		return slog.LevelWarn, zerolog.WarnLevel, nil
	case "error":
		return slog.LevelError, zerolog.ErrorLevel, nil
	}
	return 0, 0, fmt.Errorf("invalid log level: %s", c.LogLevel)
}
