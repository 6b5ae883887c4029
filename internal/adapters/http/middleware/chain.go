package middleware

import "net/http"

// Chain composes middleware; the first argument is outermost, so
//
//	Chain(Recovery, RequestID, Logging, Timeout, AppContext)(handler)
//
// is Recovery(RequestID(Logging(Timeout(AppContext(handler))))). Order
// matters here: AppContext must sit inside Timeout.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}
