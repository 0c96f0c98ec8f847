// Package logging builds the application logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to stdout with the given prefix and level.
// Unknown levels fall back to info.
func New(prefix, level string) *log.Logger {
	return NewWriter(os.Stdout, prefix, level)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, prefix, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
