// Package logging builds the structured loggers used across coffee.
//
// Loggers are always passed explicitly; nothing in coffee reads a
// process-wide logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Format specifies the output format for structured logging.
type Format string

const (
	// FormatPretty outputs colored, human-readable lines (charmbracelet/log).
	FormatPretty Format = "pretty"
	// FormatText outputs logfmt-style key=value lines.
	FormatText Format = "text"
	// FormatJSON outputs logs as JSON objects (machine-readable).
	FormatJSON Format = "json"
)

// Config holds configuration for structured logging.
type Config struct {
	// Level sets the minimum log level (default: INFO).
	Level slog.Level
	// Format sets the output format (default: pretty).
	Format Format
	// Output sets the writer for log output (default: os.Stderr).
	Output io.Writer
	// Component is attached to every record when set.
	Component string
}

// DefaultConfig returns a default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: FormatPretty,
		Output: os.Stderr,
	}
}

// New creates a logger with the given configuration.
func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, &slog.HandlerOptions{Level: cfg.Level})
	case FormatText:
		handler = slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: cfg.Level})
	default:
		handler = log.NewWithOptions(cfg.Output, log.Options{
			Level:           log.Level(cfg.Level),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		})
	}

	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = logger.With(slog.String("component", cfg.Component))
	}
	return logger
}

// ParseLevel converts a string level to slog.Level. Unknown values map to INFO.
func ParseLevel(level string) slog.Level {
	l, err := LookupLevel(level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// LookupLevel converts a string level to slog.Level, rejecting unknown
// values. An empty level is INFO.
func LookupLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(format))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want pretty, text or json)", format)
	}
}

// DiscardHandler is a slog.Handler that discards all log records.
type DiscardHandler struct{}

func (DiscardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (DiscardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d DiscardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d DiscardHandler) WithGroup(string) slog.Handler           { return d }

// NewDiscardLogger returns a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return slog.New(DiscardHandler{})
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return NewDiscardLogger()
	}
	return logger
}
