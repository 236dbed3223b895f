// Package logging builds the structured logger used throughout remapd.
// No structured-logging library appears anywhere in the example pack (see
// DESIGN.md), so it is built on the standard library's log/slog.
package logging

import (
	"log/slog"
	"os"
)

// New returns a text-handler slog.Logger writing to stderr at level,
// suitable for both interactive CLI runs and a systemd unit's journal
// capture.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// ParseLevel maps the CLI's --log-level flag value to a slog.Level,
// defaulting to Info for anything unrecognized.
func ParseLevel(name string) slog.Level {
	switch name {
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
