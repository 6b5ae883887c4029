// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. objectHandler may be
// nil when documents are served by an external object store.
func NewRouter(
	txHandler *handlers.TransactionHandler,
	healthHandler *handlers.HealthHandler,
	objectHandler *handlers.ObjectHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Signed document retrieval.
	if objectHandler != nil {
		r.Get("/objects/*", objectHandler.GetObject)
	}

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/transactions/{id}", txHandler.GetTransaction)
		r.Post("/transactions/{id}/turns", txHandler.ProcessTurn)
		r.Post("/transactions/{id}/documents", txHandler.SubmitDocument)
		r.Post("/transactions/{id}/documents:batch", txHandler.SubmitBatch)
		r.Post("/transactions/{id}/state", txHandler.State)
		r.Post("/transactions/{id}/document-model", txHandler.DocumentModel)
	})

	return r
}
