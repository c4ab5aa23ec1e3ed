// Package logging builds the application logger: slog to stderr, optionally
// teed into a size-rotated file for serve mode.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	Level   string
	File    string // empty disables file output
	MaxSize int    // megabytes per rotated file
	MaxAge  int    // days
	Backups int
}

// New creates a logger and a cleanup func that flushes file output.
func New(cfg Config) (*slog.Logger, func()) {
	level := parseLevel(cfg.Level)

	var writers []io.Writer
	writers = append(writers, os.Stderr)

	cleanup := func() {}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSize, 20),
			MaxAge:     orDefault(cfg.MaxAge, 14),
			MaxBackups: orDefault(cfg.Backups, 5),
			Compress:   true,
		}
		writers = append(writers, rotator)
		cleanup = func() { _ = rotator.Close() }
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	return slog.New(handler), cleanup
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
