package logging

import (
	"log/slog"
	"os"
)

// New builds the process-wide JSON logger. LOG_LEVEL=debug widens it
// without a rebuild.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h)
}
