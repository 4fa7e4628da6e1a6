package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger creates a slog.Logger writing JSON ("json") or text (anything else) records at or above level.
func NewLogger(w io.Writer, format string, level string) *slog.Logger {
	options := &slog.HandlerOptions{Level: ParseLogLevel(level)}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, options))
	}

	return slog.New(slog.NewTextHandler(w, options))
}

// ParseLogLevel maps debug, info, warn and error to slog levels; unknown values yield info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
