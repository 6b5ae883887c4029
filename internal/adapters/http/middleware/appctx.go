package middleware

import (
	"log/slog"
	"net/http"

	appctx "github.com/arkus-mindteams/Notary-sub000/internal/app/context"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

// AppContext opens the unit of work of a request. The workflow services find
// it with appctx.FromContext, so a turn reads its stored transaction once
// and its uploads and context save commit or roll back together.
//
// It must be the innermost middleware: fetches through the RequestContext
// use the context it wraps, which has to carry the Timeout deadline and the
// request logger.
//
// Writes still queued when the handler returns were never committed, which
// is normal on error paths; they are logged at debug level.
func AppContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			rc := appctx.New(ctx)
			next.ServeHTTP(w, r.WithContext(appctx.WithRequestContext(ctx, rc)))

			if discarded := rc.Uncommitted(); len(discarded) > 0 {
				logging.FromContext(ctx).DebugContext(ctx, "request ended with uncommitted writes",
					slog.Any("actions", discarded),
				)
			}
		})
	}
}
