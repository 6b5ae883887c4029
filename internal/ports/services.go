package ports

import (
	"context"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/document"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// WorkflowService defines the service port for conversational turns.
// Implemented by the application layer; called by inbound adapters (handlers).
type WorkflowService interface {
	// ProcessTurn interprets one user message, applies the resulting
	// commands and derives the next question. When req.Context is nil the
	// stored context is loaded, or a new one is started.
	ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error)

	// State derives the stage summary of tx, or of the stored context when
	// tx is nil.
	// Returns domain.ErrNotFound if tx is nil and nothing is stored.
	State(ctx context.Context, id string, tx *transaction.Context) (*StateResult, error)

	// BuildDocumentModel validates readiness and returns the model handed to
	// the external renderer.
	// Returns domain.ErrNotReady if stages are still open or blocked.
	BuildDocumentModel(ctx context.Context, id string, tx *transaction.Context) (*DocumentModel, error)
}

// DocumentService defines the service port for document submission.
type DocumentService interface {
	// Submit extracts one document and applies the commands it produces.
	// Extraction failures are recorded on the context, not returned.
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

	// SubmitBatch extracts several documents concurrently and applies their
	// commands sequentially in submission order.
	SubmitBatch(ctx context.Context, req BatchRequest) (*BatchResult, error)
}

// Turn is one entry of the conversation history.
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// TurnRequest is the input of ProcessTurn.
type TurnRequest struct {
	TransactionID string
	UserText      string
	Context       *transaction.Context
	History       []Turn
}

// DroppedCommand is a model-proposed command that was not applied.
type DroppedCommand struct {
	Kind   command.Kind `json:"kind"`
	Reason string       `json:"reason"`
}

// TurnDiagnostics explains what happened during a turn.
type TurnDiagnostics struct {
	Interpreter     string            `json:"interpreter"`
	Rule            string            `json:"rule,omitempty"`
	Failures        []command.Failure `json:"failures"`
	Events          []string          `json:"events,omitempty"`
	DroppedCommands []DroppedCommand  `json:"dropped_commands,omitempty"`
	Diff            string            `json:"diff,omitempty"`
	Transition      stage.Transition  `json:"transition"`
	TokenUsage      Usage             `json:"token_usage"`
	LoopGuard       bool              `json:"loop_guard"`
	Fallback        string            `json:"fallback,omitempty"`
}

// TurnResult is the output of ProcessTurn.
type TurnResult struct {
	Message         string               `json:"message"`
	Context         *transaction.Context `json:"context"`
	Summary         stage.Summary        `json:"stage_summary"`
	AppliedCommands []command.Command    `json:"applied_commands"`
	Diagnostics     TurnDiagnostics      `json:"diagnostics"`
}

// StateResult pairs a context with its derived summary.
type StateResult struct {
	Context *transaction.Context `json:"context"`
	Summary stage.Summary        `json:"stage_summary"`
}

// DocumentModel is the structured model the external renderer fills its
// template from.
type DocumentModel struct {
	TransactionID string    `json:"transaction_id"`
	Type          string    `json:"transaction_type"`
	Template      string    `json:"template"`
	Data          any       `json:"data"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// DocumentUpload is one file of a submission.
type DocumentUpload struct {
	FileName     string
	Content      []byte
	MIMEType     string
	DeclaredType document.Type
}

// SubmitRequest is the input of Submit.
type SubmitRequest struct {
	TransactionID string
	Document      DocumentUpload
	Context       *transaction.Context
}

// DocumentOutcome is the extraction result of one document.
type DocumentOutcome struct {
	Hash      string             `json:"hash"`
	Type      string             `json:"type"`
	Extracted document.Extracted `json:"extracted"`
	Coverage  document.Decision  `json:"coverage"`
	Passes    int                `json:"passes"`
	Cached    bool               `json:"cached"`
	ObjectRef string             `json:"object_ref,omitempty"`
	Failure   string             `json:"failure,omitempty"`
	Usage     Usage              `json:"token_usage"`
}

// SubmitResult is the output of Submit.
type SubmitResult struct {
	Context         *transaction.Context `json:"context"`
	Summary         stage.Summary        `json:"stage_summary"`
	Document        DocumentOutcome      `json:"document"`
	AppliedCommands []command.Command    `json:"applied_commands"`
	Failures        []command.Failure    `json:"failures"`
}

// BatchRequest is the input of SubmitBatch.
type BatchRequest struct {
	TransactionID string
	Documents     []DocumentUpload
	Context       *transaction.Context
}

// BatchResult is the output of SubmitBatch.
type BatchResult struct {
	Context         *transaction.Context `json:"context"`
	Summary         stage.Summary        `json:"stage_summary"`
	Documents       []DocumentOutcome    `json:"documents"`
	AppliedCommands []command.Command    `json:"applied_commands"`
	Failures        []command.Failure    `json:"failures"`
	TokenUsage      Usage                `json:"token_usage"`
}
