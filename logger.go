package main

import (
	"log/slog"
	"os"
)

// newLogger returns the process-wide structured logger. Debug mode
// lowers the level and adds source positions for tracing capture and
// prediction timing.
func newLogger(debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
