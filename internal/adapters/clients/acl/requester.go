package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/httpclient"
)

// Requester runs JSON requests against a model gateway: it encodes the
// body, adds the static credential headers, sends through httpclient.Client
// and decodes a 2xx reply. Other replies go through TranslateHTTPError.
type Requester struct {
	client *httpclient.Client
	header http.Header
	logger *slog.Logger
}

// NewRequester creates a Requester. header is copied onto every request and
// may be nil.
func NewRequester(client *httpclient.Client, header http.Header, logger *slog.Logger) *Requester {
	return &Requester{client: client, header: header.Clone(), logger: logger}
}

// Do sends method to the client's base URL plus path. reqBody, when
// non-nil, is sent as JSON; respBody, when non-nil, receives the decoded
// reply.
func (r *Requester) Do(ctx context.Context, method, path string, reqBody, respBody any) error {
	body := io.Reader(http.NoBody)
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling %s body for %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.client.BaseURL()+path, body)
	if err != nil {
		return fmt.Errorf("creating %s request for %s: %w", method, path, err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := r.client.Do(ctx, req)
	if resp != nil {
		defer r.closeBody(ctx, resp)
	}
	switch {
	case resp != nil && !success(resp.StatusCode):
		// Retries exhausted on a retryable status return both.
		terr := TranslateHTTPError(resp)
		r.logger.WarnContext(ctx, "provider rejected request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Any("error", terr),
		)
		return terr
	case err != nil:
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}
	return nil
}

// BaseURL returns the base URL from the underlying HTTP client.
func (r *Requester) BaseURL() string {
	return r.client.BaseURL()
}

// HealthCheck reports the underlying client's circuit breaker state: nil
// when the breaker is closed. No network call is made.
func (r *Requester) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}

func (r *Requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.logger.WarnContext(ctx, "failed to close response body", slog.Any("error", err))
	}
}

func success(status int) bool {
	return status >= 200 && status < 300
}
