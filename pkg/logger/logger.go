// Package logger provides the structured, levelled logger for the store,
// built on log/slog. Handlers are chosen by environment: human-readable
// text locally, JSON in production. A per-request logger pre-tagged with
// the request ID is injected by the logging middleware and retrieved with
// WithCtx, so every log line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_number", order.OrderNumber)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/gametribe/backend/config"
)

var (
	L    *slog.Logger
	base slog.Handler
)

func init() {
	switch config.AppEnv() {
	case "production", "prod":
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		base = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(base)
	slog.SetDefault(L)
}

// AttachHandler tees the base logger into h in addition to stdout.
// Called at boot to add the MongoDB handler.
func AttachHandler(h slog.Handler) {
	base = fanout{base, h}
	L = slog.New(base)
	slog.SetDefault(L)
}

// fanout duplicates each record to every child handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

type ctxKey struct{}

// WithCtx returns the per-request logger stored in ctx, or the base
// logger when the request pipeline has not injected one.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a pre-tagged *slog.Logger into ctx. Called by the logging
// middleware; application code normally only reads via WithCtx.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
