// log.go - structured logging setup.

package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns a charmbracelet/log logger writing to stderr (so
// stdout stays free for any piped monitoring), with the given level
// name ("debug", "info", "warn", "error"). An unrecognized level name
// falls back to info rather than failing startup over a log flag typo.
func NewLogger(levelName string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "octaver",
	})

	level, err := log.ParseLevel(levelName)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
