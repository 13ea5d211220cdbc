// Package applogger builds the process-wide slog.Logger from the
// cluster manifest's log_level/log_json settings, mirroring the
// teacher's internal/app logger construction.
package applogger

import (
	"io"
	"log/slog"
)

// New returns a logger at levelStr ("debug"|"info"|"warn"|"error",
// defaulting to info on anything else), writing JSON to out when json is
// true and human-readable text otherwise.
func New(levelStr string, json bool, out io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
}
