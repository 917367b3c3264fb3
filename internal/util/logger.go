// internal/util/logger.go
package util

import (
	"log/slog"
	"os"
	"strings"
)

var logger *slog.Logger

// InitLogger initializes the global structured logger.
// It sets up a JSON handler at the given level ("debug", "info", "warn", "error").
func InitLogger(level string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true, // Add file and line number to logs
		Level:     ParseLevel(level),
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// GetLogger returns the initialized global logger.
func GetLogger() *slog.Logger {
	if logger == nil {
		InitLogger("info") // Should be called explicitly at app start
	}
	return logger
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
