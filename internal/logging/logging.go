// Package logging builds the process loggers and routes the physics
// diagnostics into them.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/physics"
)

// LevelEnv names the environment variable holding the log level
// (debug, info, warn, error).
const LevelEnv = "BALLPIT_LOG_LEVEL"

// New returns a stderr logger with the given prefix and the level from LevelEnv.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter is New writing to w.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	logger.SetLevel(Level())
	return logger
}

// Level returns the level named by LevelEnv, or info when unset or unknown.
func Level() log.Level {
	lvl, err := log.ParseLevel(config.GetEnv(LevelEnv, "info"))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Install routes the physics package diagnostics to logger.
func Install(logger *log.Logger) {
	physics.SetLogger(slog.New(logger.WithPrefix("physics")))
}
