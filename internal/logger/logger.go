package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a printf-style wrapper around slog
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text or json
}

// New creates a logger writing to stdout
func New(cfg Config) *Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: true,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
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

// With returns a child logger tagged with a component name
func (l *Logger) With(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("component", component)),
	}
}

// Debug logs debug messages
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Logger.Debug(formatMessage(msg, args...))
}

// Info logs info messages
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Logger.Info(formatMessage(msg, args...))
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Logger.Warn(formatMessage(msg, args...))
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...interface{}) {
	l.Logger.Error(formatMessage(msg, args...))
}

func formatMessage(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

var defaultLogger *Logger

// Initialize sets up the global logger
func Initialize(cfg Config) {
	defaultLogger = New(cfg)
}

// Default returns the global logger, creating an info-level one if needed
func Default() *Logger {
	if defaultLogger == nil {
		defaultLogger = New(Config{Level: "info", Format: "text"})
	}
	return defaultLogger
}

// Discard returns a logger that drops everything, for tests
func Discard() *Logger {
	return NewWithWriter(Config{Level: "error"}, io.Discard)
}
