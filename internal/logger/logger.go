// Package logger provides structured logging configuration for the application.
// The server logs JSON with source locations for log aggregation; terminal
// commands log compact text to stderr so it does not mix with prompts.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Setup initializes the global slog logger writing to stdout.
func Setup(level slog.Level, format Format) {
	SetupWriter(os.Stdout, level, format)
}

// SetupWriter initializes the global slog logger writing to w.
// Source location tracking is enabled for JSON output.
func SetupWriter(w io.Writer, level slog.Level, format Format) {
	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     level,
		})
	}
	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a string log level to slog.Level.
// Valid values: "debug", "info", "warn", "error".
// Unrecognized values default to info level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
