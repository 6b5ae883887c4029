package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/clients/acl"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/httpclient"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/telemetry"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.LLM           = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

const chatPath = "/v1/chat/completions"

// Config selects the models and credentials.
type Config struct {
	Model string
	// VisionModel answers requests carrying an image or file. Empty means
	// Model.
	VisionModel string
	// APIKey is sent as a bearer token when set. Local gateways often need
	// none.
	APIKey string
}

// Client implements [ports.LLM] against an OpenAI-compatible chat
// completions endpoint.
//
// The underlying [httpclient.Client] provides circuit breaking, rate
// limiting, retry with exponential backoff and tracing for every call.
// Provider errors are mapped to domain errors by [acl.TranslateHTTPError];
// anything that is not already a domain error is reported as
// [domain.ErrUnavailable] so the caller degrades instead of failing.
type Client struct {
	req     *acl.Requester
	cfg     Config
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New creates a Client that sends requests through the given
// [httpclient.Client], whose BaseURL points at the API root
// (e.g. "https://api.openai.com"). metrics may be nil.
func New(client *httpclient.Client, cfg Config, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}
	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+cfg.APIKey)
	}
	return &Client{
		req:     acl.NewRequester(client, header, logger),
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
}

// Complete sends one chat completion.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	model := c.cfg.Model
	if len(req.Image) > 0 {
		model = c.cfg.VisionModel
	}

	start := time.Now()
	var dto ChatResponseDTO
	err := c.req.Do(ctx, http.MethodPost, chatPath, ToChatRequest(model, req), &dto)

	var resp *ports.CompletionResponse
	if err == nil {
		resp, err = ToCompletionResponse(dto, req.Schema != nil)
	} else {
		err = unavailable(err)
	}

	usage := ports.Usage{}
	if resp != nil {
		usage = resp.Usage
	}
	c.metrics.RecordModelCall(ctx, req.Operation, time.Since(start).Seconds(), usage.InputTokens, usage.OutputTokens, err)

	if err != nil {
		c.logger.WarnContext(ctx, "model call failed",
			slog.String("operation", req.Operation),
			slog.String("model", model),
			slog.Any("error", err),
		)
		return resp, err
	}
	return resp, nil
}

// Name returns the identifier used in the health registry.
func (c *Client) Name() string {
	return "llm-openai"
}

// HealthCheck reports the provider's availability from the circuit breaker
// state; no network call is made.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.req.HealthCheck(ctx); err != nil {
		return fmt.Errorf("llm-openai: %w", err)
	}
	return nil
}

// unavailable keeps domain errors as they are and marks transport failures
// (timeouts, open breaker, connection errors) as ErrUnavailable.
func unavailable(err error) error {
	for _, known := range []error{
		domain.ErrUnavailable, domain.ErrValidation, domain.ErrForbidden,
		domain.ErrNotFound, domain.ErrConflict,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}
