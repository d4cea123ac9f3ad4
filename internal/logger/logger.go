package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu sync.RWMutex

	// default logger instance
	defaultLogger *zap.SugaredLogger
)

// initializes the logger based on environment
func init() {
	if err := Configure(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL")); err != nil {
		defaultLogger = zap.NewNop().Sugar()
	}
}

// rebuilds the default logger, e.g. after .env has been loaded
func Configure(env, level string) error {
	base, err := build(env, level)
	if err != nil {
		return err
	}

	mu.Lock()
	defaultLogger = base.Sugar()
	mu.Unlock()

	return nil
}

func build(env, level string) (*zap.Logger, error) {
	var cfg zap.Config

	if env == "production" {
		// production: JSON output, INFO and above
		cfg = zap.NewProductionConfig()
	} else {
		// development: human-readable console output, DEBUG and above
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}

		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return l, nil
}

// returns the default logger instance
func Default() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	return defaultLogger
}

// replaces the default logger, returning a func that restores the previous one
func Replace(l *zap.SugaredLogger) func() {
	mu.Lock()
	prev := defaultLogger
	defaultLogger = l
	mu.Unlock()

	return func() {
		mu.Lock()
		defaultLogger = prev
		mu.Unlock()
	}
}

// creates a logger with additional context fields
func With(args ...any) *zap.SugaredLogger {
	return Default().With(args...)
}

// returns the request-scoped logger if one was stored, the default otherwise
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return Default()
	}

	if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return l
	}

	return Default()
}

// adds logger to context
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

type loggerKey struct{}

// flushes buffered entries, called on shutdown
func Sync() {
	_ = Default().Sync() //nolint:errcheck // stderr sync fails on some platforms
}

func Debug(msg string, args ...any) {
	Default().Debugw(msg, args...)
}

func Info(msg string, args ...any) {
	Default().Infow(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warnw(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Errorw(msg, args...)
}

// logs an error with context
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Errorw(msg, args...)
}

// logs a fatal error and exits (for CLI tools)
func Fatal(msg string, args ...any) {
	Default().Errorw(msg, args...)
	Sync()
	os.Exit(1)
}

// logs a fatal error with error and exits (for CLI tools)
func FatalErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Fatal(msg, args...)
}
