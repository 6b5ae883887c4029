package handlers

import (
	"net/http"

	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusDegraded = "degraded"
	statusNotReady = "not_ready"
)

// HealthHandler serves liveness and readiness.
//
// Checks named as degradable, the model provider and the extraction cache,
// do not fail readiness: turns still run on the deterministic rules and
// documents are extracted uncached. Their failure reports "degraded" with
// 200. Any other failing check, the context store in practice, reports
// "not_ready" with 503.
type HealthHandler struct {
	registry   ports.HealthRegistry
	degradable map[string]bool
}

// NewHealthHandler creates a HealthHandler over registry.
func NewHealthHandler(registry ports.HealthRegistry, degradable ...string) *HealthHandler {
	set := make(map[string]bool, len(degradable))
	for _, name := range degradable {
		set[name] = true
	}
	return &HealthHandler{registry: registry, degradable: set}
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	status := statusReady
	for name, err := range results {
		if err == nil {
			checks[name] = statusOK
			continue
		}
		checks[name] = err.Error()
		switch {
		case !h.degradable[name]:
			status = statusNotReady
		case status == statusReady:
			status = statusDegraded
		}
	}

	code := http.StatusOK
	if status == statusNotReady {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
