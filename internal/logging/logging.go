// Package logging configures the zerolog logger shared by every hatch
// package. Console output goes to stderr; a copy of every entry is appended
// to a log file under the XDG state directory so a failed run can be
// inspected after the terminal scrolls away.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures Setup.
type Options struct {
	Verbose bool
	// LogFile overrides the default $XDG_STATE_HOME/hatch/hatch.log.
	// Set to "-" to disable file logging.
	LogFile string
	// Console receives human-readable entries (default os.Stderr).
	Console io.Writer
}

// Setup configures the global logger and returns the id of this run.
// Every entry carries the run id so interleaved runs can be told apart in
// the shared log file.
func Setup(opts Options) string {
	level := zerolog.WarnLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
	}}

	var fileErr error
	path := opts.LogFile
	if path != "-" {
		if path == "" {
			path, fileErr = DefaultLogFile()
		}
		if fileErr == nil {
			var f *os.File
			f, fileErr = openLogFile(path)
			if fileErr == nil {
				writers = append(writers, f)
			}
		}
	}

	runID := uuid.NewString()
	log.Logger = zerolog.New(io.MultiWriter(writers...)).
		With().
		Timestamp().
		Str("run", runID).
		Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Failed to open log file, logging to console only")
	}

	log.Debug().Str("logFile", path).Msg("Logger initialized")
	return runID
}

// Get returns a logger tagged with the given component name.
func Get(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// DefaultLogFile returns $XDG_STATE_HOME/hatch/hatch.log, creating the
// parent directory.
func DefaultLogFile() (string, error) {
	path, err := xdg.StateFile(filepath.Join("hatch", "hatch.log"))
	if err != nil {
		return "", fmt.Errorf("resolving log file: %w", err)
	}
	return path, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
