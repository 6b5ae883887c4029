// Package logging builds the service's slog loggers and carries them through
// request and workflow contexts.
//
// The HTTP logging middleware stores a child logger tagged with request_id
// and correlation_id; workflow operations narrow it further:
//
//	ctx = logging.WithAttrs(ctx, slog.String("transaction_id", id))
//	logging.FromContext(ctx).InfoContext(ctx, "stage advanced")
//
// Error logs name the operation and the transaction and carry the full
// chain via slog.Any("error", err). Personal identifiers of the parties and
// provider credentials are masked by the handler, see redact_handler.go.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

// New returns a logger writing to w at level ("debug", "info", "warn" or
// "error", case-insensitive, info otherwise). format "text" selects the
// text handler and anything else JSON. Debug loggers include the source
// location.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithAttrs stores a child of the context's logger carrying attrs, so
// everything logged further down the call chain is tagged with them.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
