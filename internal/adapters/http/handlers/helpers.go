package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/dto"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
)

// transactionIDPattern bounds the identifiers accepted in paths. Ids become
// object keys and cache prefixes, so separators are not allowed.
var transactionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// parseTransactionID extracts and checks the transaction id path parameter.
func parseTransactionID(r *http.Request, param string) (string, error) {
	id := chi.URLParam(r, param)
	if !transactionIDPattern.MatchString(id) {
		return "", &domain.ValidationError{
			Fields: map[string]string{param: "must be 1-128 letters, digits, '.', '_' or '-'"},
		}
	}
	return id, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// defaultMaxBodyBytes is used when a handler is built without a limit.
const defaultMaxBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to limit bytes. An empty body is accepted when allowEmpty is set.
// On failure, it writes an error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, limit int64, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	msg := "invalid JSON"
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		msg = "too large"
	}
	dto.WriteErrorResponse(w, r, &domain.ValidationError{
		Fields: map[string]string{"body": msg},
	})
	return false
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T, limit int64) bool {
	if !decodeJSONBody(w, r, dst, limit, false) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
