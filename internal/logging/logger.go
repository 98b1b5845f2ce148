// Package logging provides the structured logger shared by back-office components.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hongminglow/backoffice/internal/config"
)

// Logger wraps slog.Logger with the back office's default fields.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stdout with the configured level and format.
func New(cfg config.LoggingConfig) *Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	handler = handler.WithAttrs([]slog.Attr{slog.String("service", "backoffice")})

	return &Logger{Logger: slog.New(handler)}
}

// With returns a logger with additional default attributes.
//
//	authLog := logger.With("component", "auth")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Discard returns a logger that drops everything; useful in tests.
func Discard() *Logger {
	return NewWithWriter(config.LoggingConfig{Level: "error"}, io.Discard)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
