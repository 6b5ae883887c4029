// Package gemini is the outbound adapter for Google's Gemini models through
// the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"google.golang.org/genai"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/telemetry"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.LLM           = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Config selects the models and credentials.
type Config struct {
	APIKey string
	Model  string
	// VisionModel answers requests carrying an image or file. Empty means
	// Model.
	VisionModel string
}

// Client implements [ports.LLM] with GenerateContent.
type Client struct {
	models  *genai.Models
	cfg     Config
	metrics *telemetry.Metrics
	logger  *slog.Logger

	// failures counts consecutive failed calls for the health check.
	failures atomic.Int32
}

// degradedAfter is the number of consecutive failures after which the
// health check reports the provider as degraded.
const degradedAfter = 3

// New creates a Client for the Gemini API. metrics may be nil.
func New(ctx context.Context, cfg Config, metrics *telemetry.Metrics, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{models: client.Models, cfg: cfg, metrics: metrics, logger: logger}, nil
}

// Complete sends one GenerateContent request. SDK errors, empty answers and
// answers that are not valid JSON when a schema was requested are reported
// as domain.ErrUnavailable.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	model := c.cfg.Model
	if len(req.Image) > 0 {
		model = c.cfg.VisionModel
	}

	start := time.Now()
	contents, genCfg := buildRequest(req)
	result, err := c.models.GenerateContent(ctx, model, contents, genCfg)

	var resp *ports.CompletionResponse
	if err != nil {
		err = fmt.Errorf("gemini generate: %w: %w", domain.ErrUnavailable, err)
	} else {
		resp, err = toResponse(result, req.Schema != nil)
	}

	usage := ports.Usage{}
	if resp != nil {
		usage = resp.Usage
	}
	c.metrics.RecordModelCall(ctx, req.Operation, time.Since(start).Seconds(), usage.InputTokens, usage.OutputTokens, err)

	if err != nil {
		c.failures.Add(1)
		c.logger.WarnContext(ctx, "model call failed",
			slog.String("operation", req.Operation),
			slog.String("model", model),
			slog.Any("error", err),
		)
		return resp, err
	}
	c.failures.Store(0)
	return resp, nil
}

// Name returns the identifier used in the health registry.
func (c *Client) Name() string {
	return "llm-gemini"
}

// HealthCheck reports degraded after repeated consecutive failures; no
// network call is made.
func (c *Client) HealthCheck(_ context.Context) error {
	if n := c.failures.Load(); n >= degradedAfter {
		return fmt.Errorf("llm-gemini: degraded (%d consecutive failures)", n)
	}
	return nil
}

// buildRequest translates a completion request into contents and config.
func buildRequest(req ports.CompletionRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	parts := make([]*genai.Part, 0, 2)
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.ImageMIME))
	}
	if req.Text != "" || len(parts) == 0 {
		parts = append(parts, genai.NewPartFromText(req.Text))
	}

	var temperature float32
	cfg := &genai.GenerateContentConfig{Temperature: &temperature}
	system := req.System
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		if schema, ok := toSchema(req.Schema); ok {
			cfg.ResponseSchema = schema
		} else if raw, err := json.Marshal(req.Schema); err == nil {
			// Free-form objects have no Gemini schema equivalent; the
			// shape is described in the instructions instead.
			system = strings.TrimSpace(system + "\n\nResponde con JSON que cumpla este esquema:\n" + string(raw))
		}
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg
}

// toResponse translates the SDK response.
func toResponse(result *genai.GenerateContentResponse, wantJSON bool) (*ports.CompletionResponse, error) {
	out := &ports.CompletionResponse{Usage: ports.Usage{Calls: 1}}
	if result == nil {
		return out, fmt.Errorf("gemini: empty response: %w", domain.ErrUnavailable)
	}
	if u := result.UsageMetadata; u != nil {
		out.Usage.InputTokens = int(u.PromptTokenCount)
		out.Usage.OutputTokens = int(u.CandidatesTokenCount)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return out, fmt.Errorf("gemini: empty answer: %w", domain.ErrUnavailable)
	}
	out.Text = text

	if wantJSON {
		if !json.Valid([]byte(text)) {
			return out, fmt.Errorf("gemini: answer is not valid JSON: %w", domain.ErrUnavailable)
		}
		out.JSON = json.RawMessage(text)
	}
	return out, nil
}

// toSchema converts a JSON schema map into a genai.Schema. It reports false
// when the schema uses an object without properties, which Gemini rejects.
func toSchema(m map[string]any) (*genai.Schema, bool) {
	s := &genai.Schema{}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}

	switch t, _ := m["type"].(string); t {
	case "string":
		s.Type = genai.TypeString
		if values, ok := m["enum"].([]any); ok {
			for _, v := range values {
				if str, ok := v.(string); ok {
					s.Enum = append(s.Enum, str)
				}
			}
		}
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	case "array":
		s.Type = genai.TypeArray
		items, ok := m["items"].(map[string]any)
		if !ok {
			return nil, false
		}
		if s.Items, ok = toSchema(items); !ok {
			return nil, false
		}
	case "object":
		s.Type = genai.TypeObject
		props, _ := m["properties"].(map[string]any)
		if len(props) == 0 {
			return nil, false
		}
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			prop, ok := raw.(map[string]any)
			if !ok {
				return nil, false
			}
			child, ok := toSchema(prop)
			if !ok {
				return nil, false
			}
			s.Properties[name] = child
		}
		s.Required = stringsOf(m["required"])
	default:
		return nil, false
	}
	return s, true
}

func stringsOf(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
