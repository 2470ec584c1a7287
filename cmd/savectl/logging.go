package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// setupLogging routes slog through a charmbracelet logger on w.
func setupLogging(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "savectl",
	})
	slog.SetDefault(slog.New(logger))

	return nil
}
