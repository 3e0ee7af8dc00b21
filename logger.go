package auth

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SlogLogger adapts a *slog.Logger to Logger. Args are key/value pairs.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *SlogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *SlogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *SlogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

// With returns a child logger that always includes the given pairs
func (s *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{l: s.l.With(args...)}
}

// SlogProvider hands out loggers tagged with their component name
type SlogProvider struct {
	base *slog.Logger
}

func NewSlogProvider(base *slog.Logger) *SlogProvider {
	if base == nil {
		base = slog.Default()
	}
	return &SlogProvider{base: base}
}

func (p *SlogProvider) GetLogger(name string) Logger {
	return &SlogLogger{l: p.base.With("logger", name)}
}

// NewJSONLogger builds the process logger. level is one of
// debug, info, warn or error, anything else means info.
func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// ResolveLogger picks the explicit logger, then the provider, then
// falls back to slog.Default tagged with name.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) Logger {
	if logger != nil {
		return logger
	}
	if provider != nil {
		if l := provider.GetLogger(name); l != nil {
			return l
		}
	}
	return &SlogLogger{l: slog.Default().With("logger", name)}
}
