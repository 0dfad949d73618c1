// Copyright (C) 2025 Subtext AI (dev@subtext.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for Subtext components.
//
// The logger is built on Go's standard library slog package with a
// layered output model:
//
//   - Default: stderr text output for CLI compatibility
//   - Optional: JSON file logging with automatic directory creation
//
// # Basic Usage
//
//	logger := logging.Default()
//	logger.Info("audit completed", "score", 8)
//
// # File Logging
//
//	logger, err := logging.New(logging.Config{
//	    Level:   logging.LevelDebug,
//	    LogDir:  "~/.subtext/logs",
//	    Service: "cli",
//	})
//	defer logger.Close()
//
// File logs are named "{service}_{date}.log" and always JSON.
//
// # Security
//
// Nothing is redacted automatically. Callers must keep credentials and
// raw secrets out of log attributes; log presence, not values.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SubtextAI/subtext/internal/config"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to LevelInfo
// for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures the Logger. A zero-value Config creates a logger
// writing Info+ text to stderr.
type Config struct {
	// Level is the minimum level; messages below it are discarded.
	Level Level

	// LogDir enables JSON file logging to the given directory,
	// created with 0750 if missing. Supports ~ expansion.
	LogDir string

	// Service is attached to every entry as the "service" attribute.
	Service string

	// JSON switches stderr output to JSON format.
	JSON bool

	// Quiet disables stderr output; useful under `subtext serve`
	// when only file logs are wanted.
	Quiet bool
}

// Logger wraps slog.Logger with file lifecycle management.
//
// Thread Safety: Safe for concurrent use; slog handlers are
// thread-safe and the file handle is written through them only.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New creates a Logger from the configuration.
//
// # Outputs
//
//   - *Logger: The logger. Call Close() when done if LogDir is set.
//   - error: Non-nil if the log directory or file cannot be created.
func New(cfg Config) (*Logger, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}

	var handlers []slog.Handler
	if !cfg.Quiet {
		if cfg.JSON {
			handlers = append(handlers, slog.NewJSONHandler(os.Stderr, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
		}
	}

	var file *os.File
	if cfg.LogDir != "" {
		dir := config.ExpandHome(cfg.LogDir)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
		name := cfg.Service
		if name == "" {
			name = "subtext"
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", name, time.Now().Format("2006-01-02")))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		file = f
		handlers = append(handlers, slog.NewJSONHandler(f, opts))
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.NewTextHandler(io.Discard, opts)
	case 1:
		handler = handlers[0]
	default:
		handler = multiHandler(handlers)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return &Logger{Logger: logger, file: file}, nil
}

// Default returns a stderr text logger at Info level.
func Default() *Logger {
	logger, _ := New(Config{})
	return logger
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// multiHandler fans one record out to every destination handler.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range m {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
