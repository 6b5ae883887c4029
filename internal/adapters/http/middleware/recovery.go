package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/dto"
)

// errInternalServer is the generic error returned to clients when a panic is
// recovered. The actual panic value and stack trace are logged but never
// exposed in the HTTP response.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that turns a handler panic into a logged stack
// trace and an RFC 9457 500 response; when headers were already sent only
// the log entry is written. http.ErrAbortHandler is re-panicked so net/http
// aborts the connection as the handler asked.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					attrs := []any{
						slog.String("panic", fmt.Sprint(v)),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					}
					if pattern, txID := routeInfo(r, http.StatusInternalServerError); pattern != "" {
						attrs = append(attrs, slog.String("route", pattern), slog.String("transaction_id", txID))
					}
					logger.ErrorContext(r.Context(), "panic recovered", attrs...)

					if !rw.headerWritten {
						dto.WriteErrorResponse(rw, r, errInternalServer)
					}
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
