package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routeInfo returns the matched route pattern and the {id} path parameter
// once the router has run. A 504 may mean Timeout abandoned a handler
// goroutine that still owns the route context, so nothing is read then.
func routeInfo(r *http.Request, status int) (pattern, transactionID string) {
	if status == http.StatusGatewayTimeout {
		return "", ""
	}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "", ""
	}
	return rctx.RoutePattern(), rctx.URLParam("id")
}
