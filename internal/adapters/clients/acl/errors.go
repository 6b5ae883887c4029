// Package acl is the Anti-Corruption Layer shared by the outbound model
// clients. It owns the request lifecycle against a JSON HTTP API and maps
// provider error responses to domain errors, so provider vocabulary never
// leaks past the adapter. Provider-specific translators live in their own
// packages (adapters/clients/llm/openai).
package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
)

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20 // 1 MB

// errorBody covers the two error shapes model gateways return: RFC 9457
// problem details and the OpenAI-style {"error": {...}} envelope.
type errorBody struct {
	Detail string        `json:"detail"`
	Errors []errorDetail `json:"errors"`
	Error  *apiError     `json:"error"`
}

// errorDetail represents a single field-level error within a problem response.
type errorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// apiError is the OpenAI-compatible error object.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    any    `json:"code"`
}

// ProviderError is a non-success reply from a model gateway. It unwraps to
// the domain sentinel its status maps to, or to nothing for statuses the
// service has no meaning for.
type ProviderError struct {
	Status  int
	Code    string // provider code such as "rate_limit_exceeded", may be empty
	Message string
	kind    error
}

func (e *ProviderError) Error() string {
	if e.kind == nil {
		return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("provider status %d (%s): %s: %v", e.Status, e.Code, e.Message, e.kind)
	}
	return fmt.Sprintf("provider status %d: %s: %v", e.Status, e.Message, e.kind)
}

func (e *ProviderError) Unwrap() error { return e.kind }

// statusKinds maps 4xx statuses to domain sentinels. Every 5xx is
// ErrUnavailable.
var statusKinds = map[int]error{
	http.StatusBadRequest:          domain.ErrValidation,
	http.StatusUnprocessableEntity: domain.ErrValidation,
	http.StatusUnauthorized:        domain.ErrForbidden,
	http.StatusForbidden:           domain.ErrForbidden,
	http.StatusNotFound:            domain.ErrNotFound,
	http.StatusConflict:            domain.ErrConflict,
	http.StatusTooManyRequests:     domain.ErrUnavailable,
}

// TranslateHTTPError maps a provider error response to a domain error.
//
// A rejected request whose body names fields becomes a
// *domain.ValidationError; anything else is a *ProviderError. Rate limiting
// and 5xx unwrap to ErrUnavailable, which callers treat as "the model could
// not answer" and degrade instead of failing the request.
func TranslateHTTPError(resp *http.Response) error {
	body := parseErrorBody(resp)

	perr := &ProviderError{Status: resp.StatusCode, Message: body.Detail, kind: statusKinds[resp.StatusCode]}
	if resp.StatusCode >= http.StatusInternalServerError {
		perr.kind = domain.ErrUnavailable
	}
	if body.Error != nil {
		if perr.Message == "" {
			perr.Message = body.Error.Message
		}
		if code, ok := body.Error.Code.(string); ok {
			perr.Code = code
		}
	}
	if perr.Message == "" {
		perr.Message = http.StatusText(resp.StatusCode)
	}

	if errors.Is(perr.kind, domain.ErrValidation) {
		if len(body.Errors) > 0 {
			return toValidationError(body.Errors)
		}
		if body.Error != nil && body.Error.Param != "" {
			return domain.NewValidationError(body.Error.Param, perr.Message)
		}
	}
	return perr
}

// parseErrorBody reads a JSON error body. Returns an empty errorBody when
// the response is not JSON or cannot be parsed.
func parseErrorBody(resp *http.Response) errorBody {
	if resp.Body == nil {
		return errorBody{}
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/problem+json") && !strings.HasPrefix(ct, "application/json") {
		return errorBody{}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return errorBody{}
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return errorBody{}
	}
	return body
}

// toValidationError converts field-level details to a domain ValidationError.
// It strips the "body." prefix from locations to produce clean field names.
func toValidationError(details []errorDetail) *domain.ValidationError {
	fields := make(map[string]string, len(details))
	for _, d := range details {
		field := strings.TrimPrefix(d.Location, "body.")
		fields[field] = d.Message
	}
	return &domain.ValidationError{Fields: fields}
}
