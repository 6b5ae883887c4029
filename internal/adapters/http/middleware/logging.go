package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

// Logging returns middleware that logs request start and completion. The
// child logger it stores with logging.WithLogger carries the request and
// correlation IDs; the completion line adds the matched route and the
// transaction the request addressed. Query strings are logged through
// RedactURL so signed document links are not replayable from logs.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			ctx = logging.WithLogger(ctx, child)
			target := RedactURL(r.URL)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", target),
			)

			if child.Enabled(ctx, slog.LevelDebug) {
				headerAttrs := RedactHeaders(r.Header)
				args := make([]any, 0, len(headerAttrs))
				for _, a := range headerAttrs {
					args = append(args, a)
				}
				child.DebugContext(ctx, "request headers", args...)
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", target),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			}
			if pattern, txID := routeInfo(r, rw.statusCode); pattern != "" {
				attrs = append(attrs, slog.String("route", pattern))
				if txID != "" {
					attrs = append(attrs, slog.String("transaction_id", txID))
				}
			}
			child.InfoContext(ctx, "request completed", attrs...)
		})
	}
}
