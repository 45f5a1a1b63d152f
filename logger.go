package main

import (
	"log/slog"
	"os"
)

// newLogger returns a structured slog.Logger writing to stderr at level.
func newLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
