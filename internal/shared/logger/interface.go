package logger

import (
	"context"
	"log/slog"
)

// Interface is the logging contract handed to every component.
// The *w variants take alternating key/value pairs.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Interface
	Named(name string) Interface

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
}

type slogLogger struct {
	logger *slog.Logger
}

func NewLogger() Interface {
	return NewLoggerWithSlog(Get())
}

func NewLoggerWithSlog(slogLog *slog.Logger) Interface {
	return &slogLogger{logger: slogLog}
}

func (l *slogLogger) log(level slog.Level, msg string, args []any) {
	l.logger.Log(context.Background(), level, msg, args...)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *slogLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *slogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *slogLogger) Debugw(msg string, kv ...interface{}) { l.log(slog.LevelDebug, msg, kv) }
func (l *slogLogger) Infow(msg string, kv ...interface{})  { l.log(slog.LevelInfo, msg, kv) }
func (l *slogLogger) Warnw(msg string, kv ...interface{})  { l.log(slog.LevelWarn, msg, kv) }
func (l *slogLogger) Errorw(msg string, kv ...interface{}) { l.log(slog.LevelError, msg, kv) }

// Fatalw logs at error level and panics; only startup paths that cannot
// continue (migration tooling) call it.
func (l *slogLogger) Fatalw(msg string, kv ...interface{}) {
	l.log(slog.LevelError, msg, kv)
	panic("fatal: " + msg)
}

func (l *slogLogger) With(args ...any) Interface {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) Named(name string) Interface {
	return l.With("logger", name)
}
