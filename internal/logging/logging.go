// Package logging builds the zap logger used across aquacheck.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Options selects where logs go.
type Options struct {
	// File receives JSON logs. It is created with its parent directory.
	File string
	// Level is a zap level name; empty means info.
	Level string
	// Console adds human-readable output on stderr. The TUI owns the
	// terminal, so only non-interactive commands set it.
	Console bool
}

// New returns a logger for opts. With no file and no console output it
// returns a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" && !opts.Console {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		l, err := zap.ParseAtomicLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	var cfg zap.Config
	if opts.Console {
		cfg = zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
	} else {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = nil
		cfg.Sampling = nil
	}
	cfg.Level = level
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
