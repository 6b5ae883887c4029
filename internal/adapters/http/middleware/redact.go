package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

const redacted = "[REDACTED]"

// sensitiveParams are query parameters that grant access on their own: the
// signature of a document retrieval link, and provider keys.
var sensitiveParams = map[string]bool{
	"signature": true,
	"key":       true,
	"api_key":   true,
}

// RedactHeaders converts headers to log attributes, masking the credential
// headers in logging.SensitiveHeaders. Multi-value headers are joined with a
// comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for key, vals := range headers {
		if logging.SensitiveHeaders[strings.ToLower(key)] {
			attrs = append(attrs, slog.String(key, redacted))
		} else {
			attrs = append(attrs, slog.String(key, strings.Join(vals, ",")))
		}
	}
	return attrs
}

// RedactURL returns u as a path plus query with the values of
// sensitiveParams masked. A signed document link logged or traced this way
// can no longer be replayed.
func RedactURL(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path
	}
	q := u.Query()
	for name := range q {
		if sensitiveParams[strings.ToLower(name)] {
			q.Set(name, redacted)
		}
	}
	return u.Path + "?" + q.Encode()
}
