// Package logger is the logging facade of threadcodec, backed by go-belt.
package logger

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"
)

// Logger is a type-alias for the go-belt logger.
type Logger = logger.Logger

// SetDefault sets the logger used when a context carries none.
func SetDefault(defaultLogger func() Logger) {
	logger.Default = defaultLogger
}

// Debugf is a shorthand for Logf(ctx, LevelDebug, ...)
func Debugf(ctx context.Context, format string, args ...any) {
	logger.Debugf(ctx, format, args...)
}

// Infof is a shorthand for Logf(ctx, LevelInfo, ...)
func Infof(ctx context.Context, format string, args ...any) {
	logger.Infof(ctx, format, args...)
}

// Warnf is a shorthand for Logf(ctx, LevelWarning, ...)
func Warnf(ctx context.Context, format string, args ...any) {
	logger.Warnf(ctx, format, args...)
}

// Errorf is a shorthand for Logf(ctx, LevelError, ...)
func Errorf(ctx context.Context, format string, args ...any) {
	logger.Errorf(ctx, format, args...)
}

// Panic is a shorthand for Log(ctx, LevelPanic, ...)
//
// Be aware: Panic level also triggers a `panic`.
func Panic(ctx context.Context, values ...any) {
	logger.Panic(ctx, values...)
}

// Logf logs an unstructured message together with the contextual fields.
func Logf(ctx context.Context, level Level, format string, args ...any) {
	logger.Logf(ctx, level, format, args...)
}
