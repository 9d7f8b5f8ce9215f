// Package logger configures the application slog.Logger and provides
// request-scoped loggers via the request context.
//
// In dev/test environments logs are human-readable (tint); in prod/staging
// they are JSON for ingestion by the log pipeline.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lmittmann/tint"
)

type contextKey int

const (
	requestLoggerKey contextKey = iota
	logAttrsKey
)

// InitLogger creates the application logger and installs it as the slog
// default.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler
	switch environment {
	case "prod", "staging":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLogLevel converts a LOG_LEVEL string to a slog.Level.
// Unrecognized values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logAttrHolder accumulates attributes added by handlers during a request,
// to be emitted with the final request log line.
type logAttrHolder struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextWithRequestLogger stores a request-scoped logger in the context.
// Installed by the request-logging middleware.
func ContextWithRequestLogger(ctx context.Context, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, requestLoggerKey, logger)
	return context.WithValue(ctx, logAttrsKey, &logAttrHolder{})
}

// ContextRequestLogger returns the request-scoped logger, falling back to
// the default logger when called outside a request.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// ContextWithLogAttrs records extra attributes to include in the final
// request log line. No-op outside a request.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	if holder, ok := ctx.Value(logAttrsKey).(*logAttrHolder); ok {
		holder.mu.Lock()
		holder.attrs = append(holder.attrs, attrs...)
		holder.mu.Unlock()
	}
}

// ContextLogAttrs returns the attributes recorded during the request.
func ContextLogAttrs(ctx context.Context) []slog.Attr {
	if holder, ok := ctx.Value(logAttrsKey).(*logAttrHolder); ok {
		holder.mu.Lock()
		defer holder.mu.Unlock()
		return append([]slog.Attr(nil), holder.attrs...)
	}
	return nil
}
