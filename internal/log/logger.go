// Package log wraps log/slog so every line carries the component that
// emitted it.
package log

import (
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
	handler   slog.Handler
	component string
}

// New builds a text logger writing to stdout. level accepts
// debug/info/warn/error (case-insensitive); anything else means info.
func New(component, level string) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return &Logger{
		Logger:    slog.New(handler).With("component", component),
		handler:   handler,
		component: component,
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// WithComponent returns a logger scoped to another component, sharing
// the handler and level of the parent.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    slog.New(l.handler).With("component", component),
		handler:   l.handler,
		component: component,
	}
}

func (l *Logger) Component() string {
	return l.component
}

// SetDefault routes package-level slog calls through this logger.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
