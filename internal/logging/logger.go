// Package logging provides the process-wide structured logger.
//
// Init configures level, format and destination once per command run;
// GetLogger is safe to call before Init and falls back to a warn-level
// text logger on stderr so report output on stdout stays clean.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// Config holds logger configuration
type Config struct {
	Level  string // debug|info|warn|error
	Format string // text|json
	Output io.Writer
}

// ParseLevel maps a level name to slog, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Init replaces the global logger.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q (use text|json)", cfg.Format)
	}
	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
	return nil
}

// GetLogger returns the global logger.
func GetLogger() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return logger
}

// WithComponent creates a logger with component/subsystem context.
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithDataset creates a logger tagged with the dataset being processed.
func WithDataset(name string) *slog.Logger {
	return GetLogger().With("dataset", name)
}
