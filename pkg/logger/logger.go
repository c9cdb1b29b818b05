// Package logger provides the shop's structured logger built on log/slog.
//
// WithCtx returns the per-request logger installed by the Logger middleware,
// so every line a handler writes carries the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID, "total", order.Total)
//	// → time=... level=INFO msg="order placed" request_id=6f1c... order_id=42 total=219.99
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/mockshop/config"
)

var (
	L    *slog.Logger
	base slog.Handler
	sink *MongoHandler
)

func init() {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	switch config.AppEnv() {
	case "production", "prod":
		opts.Level = slog.LevelInfo
		base = slog.NewJSONHandler(os.Stdout, opts)
	case "test":
		opts.Level = slog.LevelWarn
		base = slog.NewTextHandler(os.Stderr, opts)
	default:
		base = slog.NewTextHandler(os.Stdout, opts)
	}

	L = slog.New(base)
	slog.SetDefault(L)
}

// EnableMongo fans log records out to a MongoDB collection in addition to
// stdout. It is a no-op when uri is empty.
func EnableMongo(uri string) error {
	if uri == "" {
		return nil
	}
	h, err := NewMongoHandler(uri, "mockshop", "logs", slog.LevelInfo)
	if err != nil {
		return err
	}
	sink = h
	L = slog.New(NewMultiHandler(base, h))
	slog.SetDefault(L)
	return nil
}

// Close flushes the MongoDB sink, if one is attached.
func Close() {
	if sink != nil {
		sink.Close()
		sink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx by InjectLogger,
// or the base logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
