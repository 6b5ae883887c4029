package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

// ErrorResponse represents an RFC 9457 Problem Details response. Code is an
// extension member clients switch on, e.g. "not_ready" to keep asking for
// the missing fields instead of showing a failure.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Code     string        `json:"code"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents a single field-level validation error within
// an ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// problem is how one class of error is presented. A fixed detail replaces
// the error text, which for server-side failures may carry connection
// strings or model output.
type problem struct {
	status int
	code   string
	detail string
}

// NewErrorResponse creates an RFC 9457 ErrorResponse for err. Instance is
// the request path without its query, so signed links are not echoed.
//
// Field errors are located under "body." for a rejected request and under
// "context." when the transaction is not ready, where they name what is
// still missing from the stored context.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	p := classify(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(p.status),
		Status:   p.status,
		Code:     p.code,
		Detail:   p.detail,
		Instance: r.URL.Path,
	}
	if resp.Detail == "" {
		resp.Detail = err.Error()
	}

	prefix := "body."
	if p.code == "not_ready" {
		prefix = "context."
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(prefix, verr.Fields)
	}
	var cerr *domain.ConflictError
	if errors.As(err, &cerr) {
		resp.Errors = append(resp.Errors, ErrorDetail{
			Location: prefix + cerr.Field,
			Message:  cerr.Code,
			Value:    map[string]string{"declared": cerr.Declared, "recorded": cerr.Recorded},
		})
	}

	return resp
}

// WriteErrorResponse writes err as application/problem+json. Server-side
// failures, whose text the client does not see, are logged in full.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	if resp.Status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			slog.String("code", resp.Code),
			slog.Int("status", resp.Status),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// classify maps domain sentinel errors to their presentation. Order
// matters: a not-ready error wraps a validation or conflict error.
func classify(err error) problem {
	switch {
	case errors.Is(err, domain.ErrNotReady):
		return problem{status: http.StatusUnprocessableEntity, code: "not_ready"}
	case errors.Is(err, domain.ErrValidation):
		return problem{status: http.StatusBadRequest, code: "invalid_request"}
	case errors.Is(err, domain.ErrNotFound):
		return problem{status: http.StatusNotFound, code: "not_found"}
	case errors.Is(err, domain.ErrForbidden):
		return problem{status: http.StatusForbidden, code: "forbidden"}
	case errors.Is(err, domain.ErrConflict):
		return problem{status: http.StatusConflict, code: "conflict"}
	case errors.Is(err, context.DeadlineExceeded):
		return problem{status: http.StatusGatewayTimeout, code: "timeout",
			detail: "the request did not finish in time"}
	case errors.Is(err, domain.ErrUnavailable):
		return problem{status: http.StatusBadGateway, code: "model_unavailable",
			detail: "the model provider is unavailable"}
	case errors.Is(err, domain.ErrExtraction):
		return problem{status: http.StatusBadGateway, code: "extraction_failed",
			detail: "the document could not be read"}
	default:
		return problem{status: http.StatusInternalServerError, code: "internal",
			detail: "internal server error"}
	}
}

// validationFieldsToDetails converts domain validation fields to
// ErrorDetail entries sorted by location.
func validationFieldsToDetails(prefix string, fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ErrorDetail{
			Location: prefix + field,
			Message:  msg,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Location < details[j].Location
	})
	return details
}
