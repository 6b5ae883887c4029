package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/dto"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
)

// ObjectOpener verifies a signed reference and returns the stored bytes
// with their MIME type.
type ObjectOpener interface {
	Open(ref, expires, signature string) ([]byte, string, error)
}

// ObjectHandler serves documents behind the signed URLs issued by the
// in-process object store.
type ObjectHandler struct {
	objects ObjectOpener
}

// NewObjectHandler creates an ObjectHandler.
func NewObjectHandler(objects ObjectOpener) *ObjectHandler {
	return &ObjectHandler{objects: objects}
}

// GetObject handles GET /objects/*.
func (h *ObjectHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "*")
	if ref == "" {
		dto.WriteErrorResponse(w, r, domain.NewValidationError("ref", domain.MsgRequired))
		return
	}

	q := r.URL.Query()
	data, mimeType, err := h.objects.Open(ref, q.Get("expires"), q.Get("signature"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
