package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// LLM is the language/vision model capability. Implemented by the model
// client adapters; called by the hybrid interpreter and the extraction
// pipeline.
type LLM interface {
	// Complete sends one request and returns the model's answer. An empty or
	// unparseable answer is reported as an error wrapping domain.ErrUnavailable
	// so callers can degrade instead of failing the turn.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest is a single model call.
type CompletionRequest struct {
	// System carries the instructions.
	System string
	// Text is the user content.
	Text string
	// Image is optional binary content (a scanned page) with its MIME type.
	Image     []byte
	ImageMIME string
	// Schema, when set, asks for a JSON answer matching this JSON schema.
	Schema map[string]any
	// Operation names the caller for logs and metrics (e.g. "interpret").
	Operation string
}

// CompletionResponse is the model's answer.
type CompletionResponse struct {
	Text string
	// JSON holds the decoded structured answer when a Schema was requested.
	JSON  json.RawMessage
	Usage Usage
}

// Usage counts model tokens.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	Calls        int `json:"calls"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.Calls += other.Calls
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// ContextStore persists transaction contexts as opaque JSON documents.
type ContextStore interface {
	// Load returns the stored context.
	// Returns domain.ErrNotFound if nothing is stored for id.
	Load(ctx context.Context, id string) (*transaction.Context, error)

	// Save upserts the context under its TransactionID.
	Save(ctx context.Context, tx *transaction.Context) error
}

// ObjectStore keeps uploaded document bytes. Key naming is the caller's
// policy.
type ObjectStore interface {
	// Put stores data under key and returns a stable reference.
	Put(ctx context.Context, key string, data []byte, mimeType string) (string, error)

	// URL returns a time-limited retrieval URL for ref.
	// Returns domain.ErrNotFound if ref is unknown.
	URL(ctx context.Context, ref string, ttl time.Duration) (string, error)

	// Delete removes ref. Deleting an unknown ref is not an error.
	Delete(ctx context.Context, ref string) error
}

// ExtractionCache is the content-addressed store of completed extractions.
// Writes are idempotent upserts.
type ExtractionCache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error
}
