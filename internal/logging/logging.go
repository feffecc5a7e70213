package logging

import (
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
)

// New creates a console slog.Logger on stderr so stdout stays free for the digest report.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter builds the same text logger on an arbitrary writer.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

// Discard is used by components constructed without a logger.
func Discard() *slog.Logger {
	// Go 1.21 has no slog.DiscardHandler; a handler whose minimum level is
	// above every real level is likewise disabled for all records.
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
