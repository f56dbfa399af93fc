package logging

import (
	"log/slog"
	"os"
)

// Logger is the minimal logging interface consumed by the server layer.
// It decouples callers from slog so tests can substitute a recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter adapts a *slog.Logger to the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps the given logger; a nil logger falls back to
// slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Logger returns the wrapped *slog.Logger.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

func (a *SlogAdapter) Debug(msg string, args ...any) { a.logger.Debug(msg, args...) }
func (a *SlogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *SlogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *SlogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }

// DefaultLogger returns an adapter around a JSON handler writing to
// stderr. Stdout is reserved for the stdio MCP transport.
func DefaultLogger() *SlogAdapter {
	handler := slog.NewJSONHandler(os.Stderr, nil)
	return NewSlogAdapter(slog.New(handler))
}

// NewLevelLogger returns an adapter honoring the given textual level
// ("debug", "info", "warn", "error"); unknown levels mean info.
func NewLevelLogger(level string) *SlogAdapter {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	return NewSlogAdapter(slog.New(handler))
}
