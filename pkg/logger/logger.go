// Package logger provides structured logging on top of zap. Loggers travel
// through context.Context so request handlers and layout passes can attach
// fields (request ID, page, fragment) once and have them on every entry.
package logger

import (
	"context"
	"log"
	"log/slog"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	// DevelopmentEnvironment selects a colored console logger at debug level.
	DevelopmentEnvironment = "development"

	// ProductionEnvironment selects a JSON logger at info level.
	ProductionEnvironment = "production"
)

// base is used whenever a context carries no logger. It starts as a no-op
// so that packages can log before Setup runs.
var base atomic.Pointer[zap.Logger] //nolint: gochecknoglobals

func init() { //nolint: gochecknoinits
	base.Store(zap.NewNop())
}

// New builds a logger for environment. Unknown environments get the
// development configuration.
func New(environment string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == ProductionEnvironment {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return cfg.Build() //nolint: wrapcheck
}

// Setup installs the logger for environment as the default. If it cannot
// be built the previous default stays in place.
func Setup(environment string) {
	if l, err := New(environment); err == nil {
		base.Store(l)
	}
}

// Replace swaps the default logger and returns a function restoring the
// previous one. Tests use it to capture entries with zaptest/observer.
func Replace(l *zap.Logger) func() {
	prev := base.Swap(l)

	return func() { base.Store(prev) }
}

type ctxKey struct{}

// Get returns the logger stored in ctx, or the default one.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(ctxKey{}).(*zap.Logger); l != nil {
		return l
	}

	return base.Load()
}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithFields returns a copy of ctx whose logger has fields attached.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// Named scopes the context logger to a component, e.g. "layout" or "contact".
func Named(ctx context.Context, component string) context.Context {
	return WithLogger(ctx, Get(ctx).Named(component))
}

// StdLogger bridges the context logger into a *log.Logger for APIs such as
// http.Server.ErrorLog that only accept the standard library type.
func StdLogger(ctx context.Context, level slog.Level) *log.Logger {
	return slog.NewLogLogger(zapslog.NewHandler(Get(ctx).Core()), level)
}

// IsDebug reports whether debug entries of the context logger are kept.
func IsDebug(ctx context.Context) bool {
	return Get(ctx).Core().Enabled(zap.DebugLevel)
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Fatal logs at fatal level and exits the process.
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
