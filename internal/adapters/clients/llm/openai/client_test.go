package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/config"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/httpclient"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// newTestClient creates a Client pointing at the given test server with
// circuit breaker and retry configured for fast test execution.
func newTestClient(t *testing.T, baseURL string, cfg Config) *Client {
	t.Helper()

	clientCfg := &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
	return New(httpclient.New(clientCfg, "llm-openai-test", nil, slog.Default()), cfg, nil, slog.Default())
}

// writeJSON encodes v as JSON to the response writer, failing the test on error.
func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func answer(content string) ChatResponseDTO {
	return ChatResponseDTO{
		Choices: []ChoiceDTO{{Message: ResponseMessageDTO{Role: "assistant", Content: content}, FinishReason: "stop"}},
		Usage:   UsageDTO{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150},
	}
}

func TestClient_CompleteText(t *testing.T) {
	t.Parallel()

	var got ChatRequestDTO
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != chatPath {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want bearer key", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		writeJSON(t, w, answer(`{"commands":[],"reply":"¿Cuál es el folio real?"}`))
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Config{Model: "gpt-4o-mini", VisionModel: "gpt-4o", APIKey: "sk-test"})
	resp, err := client.Complete(context.Background(), ports.CompletionRequest{
		System:    "Eres un asistente notarial.",
		Text:      "hola",
		Schema:    map[string]any{"type": "object"},
		Operation: "interpret",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want text model", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v, want system then user", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.JSONSchema.Name != "interpret" {
		t.Errorf("response_format = %+v, want json_schema named interpret", got.ResponseFormat)
	}
	if !strings.Contains(string(resp.JSON), "folio real") {
		t.Errorf("JSON = %s, want decoded answer", resp.JSON)
	}
	if resp.Usage != (ports.Usage{InputTokens: 120, OutputTokens: 30, Calls: 1}) {
		t.Errorf("Usage = %+v", resp.Usage)
	}
}

func TestClient_CompleteImageUsesVisionModel(t *testing.T) {
	t.Parallel()

	var raw map[string]any
	var got ChatRequestDTO
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.Unmarshal(body, &raw)
		_ = json.Unmarshal(body, &got)
		writeJSON(t, w, answer(`{"folios":["1234567"]}`))
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL, Config{Model: "gpt-4o-mini", VisionModel: "gpt-4o"})
	_, err := client.Complete(context.Background(), ports.CompletionRequest{
		Text:      "Extrae los datos",
		Image:     []byte{0x89, 'P', 'N', 'G'},
		ImageMIME: "image/png",
		Schema:    map[string]any{"type": "object"},
		Operation: "extract",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got.Model != "gpt-4o" {
		t.Errorf("model = %q, want vision model", got.Model)
	}
	msgs, _ := raw["messages"].([]any)
	user, _ := msgs[len(msgs)-1].(map[string]any)
	parts, ok := user["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("user content = %v, want text and image parts", user["content"])
	}
	image, _ := parts[1].(map[string]any)
	url, _ := image["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("image url = %q, want data URL", url)
	}
}

func TestClient_ErrorsAreUnavailableOrDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
			},
			wantErr: domain.ErrUnavailable,
		},
		{
			name: "bad key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[],"usage":{"prompt_tokens":10}}`))
			},
			wantErr: domain.ErrUnavailable,
		},
		{
			name: "not json when schema requested",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"lo siento"}}]}`))
			},
			wantErr: domain.ErrUnavailable,
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>gateway</html>`))
			},
			wantErr: domain.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			client := newTestClient(t, ts.URL, Config{Model: "m"})
			_, err := client.Complete(context.Background(), ports.CompletionRequest{
				Text:   "hola",
				Schema: map[string]any{"type": "object"},
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Complete() error = %v, want errors.Is %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://127.0.0.1:1", Config{Model: "m"})
	if got := client.Name(); got != "llm-openai" {
		t.Errorf("Name() = %q", got)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil with a closed breaker", err)
	}
}

func TestToChatRequest_PDFIsSentAsFile(t *testing.T) {
	t.Parallel()

	dto := ToChatRequest("m", ports.CompletionRequest{Image: []byte("%PDF-1.7"), ImageMIME: "application/pdf"})
	parts, ok := dto.Messages[0].Content.([]ContentPartDTO)
	if !ok || len(parts) != 1 {
		t.Fatalf("content = %#v, want one file part", dto.Messages[0].Content)
	}
	if parts[0].Type != "file" || !strings.HasPrefix(parts[0].File.FileData, "data:application/pdf;base64,") {
		t.Errorf("part = %+v, want PDF file data URL", parts[0])
	}
	if dto.ResponseFormat != nil {
		t.Error("response_format set without a schema")
	}
}
