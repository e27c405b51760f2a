// Package iologger builds slog loggers from the log configuration.
// It never installs a global logger, the result is passed to the
// components that need it.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/geopephub/pkg/config"
)

// LogFile is the name of the log file in the log directory.
const LogFile = "geopephub.log"

// New creates a logger with the given configuration.
// Creates log file in logDir if destination is "file".
// If append is true, appends to existing log file; otherwise creates fresh file.
func New(logDir string, cfg config.LogConfig, append bool) (*slog.Logger, error) {
	var writer io.Writer

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		var file *os.File
		var err error

		if append {
			file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		} else {
			file, err = os.Create(logPath)
		}

		if err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		writer = file
	default:
		writer = os.Stderr
	}

	return slog.New(newHandler(writer, cfg)), nil
}

// WithRunID adds an ID of the current invocation to every record.
func WithRunID(l *slog.Logger, id string) *slog.Logger {
	return l.With("run_id", id)
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
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
