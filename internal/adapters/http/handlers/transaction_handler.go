package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/dto"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// TransactionHandlerConfig bounds request bodies and signed URL lifetimes.
type TransactionHandlerConfig struct {
	MaxBodyBytes int64
	URLTTL       time.Duration
}

// TransactionHandler handles HTTP requests for the pre-filing workflow of
// one transaction: turns, document submissions, state and document model.
type TransactionHandler struct {
	workflow  ports.WorkflowService
	documents ports.DocumentService
	objects   ports.ObjectStore
	cfg       TransactionHandlerConfig
	now       func() time.Time
}

// NewTransactionHandler creates a TransactionHandler. objects may be nil,
// in which case document views carry no retrieval URL.
func NewTransactionHandler(
	workflow ports.WorkflowService,
	documents ports.DocumentService,
	objects ports.ObjectStore,
	cfg TransactionHandlerConfig,
) *TransactionHandler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	return &TransactionHandler{
		workflow:  workflow,
		documents: documents,
		objects:   objects,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ProcessTurn handles POST /api/v1/transactions/{id}/turns.
func (h *TransactionHandler) ProcessTurn(w http.ResponseWriter, r *http.Request) {
	id, err := parseTransactionID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.TurnRequest
	if !decodeAndValidate(w, r, &req, h.cfg.MaxBodyBytes) {
		return
	}

	result, err := h.workflow.ProcessTurn(r.Context(), req.ToPort(id))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SubmitDocument handles POST /api/v1/transactions/{id}/documents. The body
// is either multipart/form-data with a "file" part or JSON with base64
// content.
func (h *TransactionHandler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseTransactionID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.DocumentRequest
	if isMultipart(r) {
		payloads, tx, err := parseMultipart(w, r, "file", h.cfg.MaxBodyBytes)
		if err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		req = dto.DocumentRequest{DocumentPayload: payloads[0], Context: tx}
		if err := req.Validate(); err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
	} else if !decodeAndValidate(w, r, &req, h.cfg.MaxBodyBytes) {
		return
	}

	result, err := h.documents.Submit(r.Context(), ports.SubmitRequest{
		TransactionID: id,
		Document:      req.ToUpload(),
		Context:       req.Context,
	})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SubmitBatch handles POST /api/v1/transactions/{id}/documents:batch. The
// body is either multipart/form-data with "files" parts or JSON.
func (h *TransactionHandler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	id, err := parseTransactionID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.BatchRequest
	if isMultipart(r) {
		payloads, tx, err := parseMultipart(w, r, "files", h.cfg.MaxBodyBytes)
		if err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		req = dto.BatchRequest{Documents: payloads, Context: tx}
		if err := req.Validate(); err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
	} else if !decodeAndValidate(w, r, &req, h.cfg.MaxBodyBytes) {
		return
	}

	result, err := h.documents.SubmitBatch(r.Context(), req.ToPort(id))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// State handles POST /api/v1/transactions/{id}/state. The body may carry a
// context; otherwise the stored one is summarized.
func (h *TransactionHandler) State(w http.ResponseWriter, r *http.Request) {
	id, err := parseTransactionID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.ContextRequest
	if !decodeJSONBody(w, r, &req, h.cfg.MaxBodyBytes, true) {
		return
	}

	result, err := h.workflow.State(r.Context(), id, req.Context)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DocumentModel handles POST /api/v1/transactions/{id}/document-model.
func (h *TransactionHandler) DocumentModel(w http.ResponseWriter, r *http.Request) {
	id, err := parseTransactionID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.ContextRequest
	if !decodeJSONBody(w, r, &req, h.cfg.MaxBodyBytes, true) {
		return
	}

	model, err := h.workflow.BuildDocumentModel(r.Context(), id, req.Context)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model)
}

// GetTransaction handles GET /api/v1/transactions/{id}.
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseTransactionID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	result, err := h.workflow.State(r.Context(), id, nil)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var urlFor func(string) string
	if h.objects != nil {
		urlFor = func(ref string) string {
			u, err := h.objects.URL(r.Context(), ref, h.cfg.URLTTL)
			if err != nil {
				slog.WarnContext(r.Context(), "signing document url failed",
					slog.String("ref", ref),
					slog.Any("error", err),
				)
				return ""
			}
			return u
		}
	}

	writeJSON(w, http.StatusOK, dto.ToTransactionResponse(result, urlFor, h.now().Add(h.cfg.URLTTL)))
}
