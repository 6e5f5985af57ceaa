// Package logging configures the application logger. The TUI owns
// stdout, so log output goes to a file under the user's state
// directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to logPath, creating parent
// directories as needed. Debug mode lowers the level threshold.
func New(logPath string, debug bool) (zerolog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", logPath, err)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(file).With().Timestamp().Logger().Level(level)
	return logger, file.Close, nil
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "fanclient.log")
	}
	return filepath.Join(home, ".local", "share", "fanclient", "fanclient.log")
}
