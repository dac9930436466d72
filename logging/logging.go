// Package logging provides structured logging with zap.
//
// The browser owns the terminal, so logs only go to a file. Until Init is
// called with an output path the global logger discards everything.
package logging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	loggerKey  contextKey = "logger"
	fetchIDKey contextKey = "fetch_id"
)

var (
	globalLogger = zap.NewNop()
	globalLevel  = zap.NewAtomicLevel()
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // file path, empty disables logging
}

// Init initializes the global logger. Every entry carries a session id
// identifying this run of the browser.
func Init(cfg Config) error {
	if cfg.OutputPath == "" {
		globalLogger = zap.NewNop()
		return nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	globalLevel.SetLevel(level)
	config.Level = globalLevel
	config.OutputPaths = []string{cfg.OutputPath}
	config.ErrorOutputPaths = []string{cfg.OutputPath}

	logger, err := config.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("session_id", uuid.NewString())),
	)
	if err != nil {
		return err
	}

	globalLogger = logger
	return nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	return globalLogger.Sync()
}

// SetLevel changes the global log level at runtime.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

// L returns the global logger.
func L() *zap.Logger {
	return globalLogger
}

// WithContext returns a logger from context, or the global logger.
func WithContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return L()
}

// WithFetchID tags the context's logger with a fresh fetch id and returns
// the new context.
func WithFetchID(ctx context.Context) context.Context {
	id := uuid.NewString()
	logger := WithContext(ctx).With(zap.String("fetch_id", id))
	ctx = context.WithValue(ctx, fetchIDKey, id)
	return context.WithValue(ctx, loggerKey, logger)
}

// FetchID returns the fetch id from context.
func FetchID(ctx context.Context) string {
	if id, ok := ctx.Value(fetchIDKey).(string); ok {
		return id
	}
	return ""
}
