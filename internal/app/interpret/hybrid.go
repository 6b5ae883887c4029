package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/merge"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Reasons a model-proposed command is dropped.
const (
	DropUnknownKind   = "unknown_kind"
	DropDocumentOnly  = "document_only"
	DropSystemOnly    = "system_only"
	DropNotAllowed    = "not_allowed"
	DropMalformed     = "malformed"
	DropDeltaDisabled = "delta_not_allowed"
	DropDeltaPath     = "path_not_allowed"
)

// operation is the model-call name used in logs and metrics.
const operation = "interpret"

// HybridRequest is one model-backed interpretation.
type HybridRequest struct {
	Input Input
	// Stage is the definition of Input.Summary.CurrentStage. A zero value
	// means no stage is current and no delta is accepted.
	Stage stage.Definition
	// System is the transaction type's instruction prompt.
	System  string
	History []ports.Turn
}

// HybridResult is a Result plus what the model proposed but was refused.
type HybridResult struct {
	Result
	Dropped []ports.DroppedCommand
	Usage   ports.Usage
}

// Hybrid asks the language model and keeps only what the current stage
// allows.
type Hybrid struct {
	llm          ports.LLM
	timeout      time.Duration
	historyTurns int
	now          func() time.Time
}

// HybridOption configures a Hybrid interpreter.
type HybridOption func(*Hybrid)

// WithHybridClock overrides the command timestamp source.
func WithHybridClock(now func() time.Time) HybridOption {
	return func(h *Hybrid) { h.now = now }
}

// NewHybrid creates a Hybrid interpreter. historyTurns bounds how many recent
// turns are sent; timeout bounds the model call.
func NewHybrid(llm ports.LLM, timeout time.Duration, historyTurns int, opts ...HybridOption) *Hybrid {
	h := &Hybrid{llm: llm, timeout: timeout, historyTurns: historyTurns, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// modelReply is the JSON shape the model is asked to produce.
type modelReply struct {
	Commands []struct {
		Kind    command.Kind    `json:"kind"`
		Payload json.RawMessage `json:"payload"`
	} `json:"commands"`
	ContextDelta map[string]any `json:"context_delta"`
	Reply        string         `json:"reply"`
}

// replySchema is the JSON schema sent with every interpretation request.
var replySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"commands": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":    map[string]any{"type": "string"},
					"payload": map[string]any{"type": "object"},
				},
				"required": []any{"kind", "payload"},
			},
		},
		"context_delta": map[string]any{"type": "object"},
		"reply":         map[string]any{"type": "string"},
	},
	"required": []any{"commands", "reply"},
}

// Interpret calls the model once. A model error, timeout or unparseable
// answer is returned as an error wrapping domain.ErrUnavailable; the caller
// falls back to asking again. Usage is reported even on error.
func (h *Hybrid) Interpret(ctx context.Context, req HybridRequest) (*HybridResult, error) {
	if h.llm == nil {
		return &HybridResult{}, fmt.Errorf("no language model configured: %w", domain.ErrUnavailable)
	}

	callCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	user, err := h.userContent(req)
	if err != nil {
		return &HybridResult{}, fmt.Errorf("building model request: %w", err)
	}

	resp, err := h.llm.Complete(callCtx, ports.CompletionRequest{
		System:    req.System,
		Text:      user,
		Schema:    replySchema,
		Operation: operation,
	})
	if err != nil {
		return &HybridResult{}, unavailable("model call", err)
	}

	out := &HybridResult{Usage: resp.Usage}
	raw := resp.JSON
	if len(raw) == 0 {
		raw = json.RawMessage(stripFence(resp.Text))
	}
	var reply modelReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return out, unavailable("decoding model reply", err)
	}

	out.Interpreter = NameHybrid
	out.Reply = strings.TrimSpace(reply.Reply)
	at := h.now()

	for _, c := range reply.Commands {
		p, reason := admit(c.Kind, c.Payload, req.Input.Summary.AllowedCommands)
		if reason != "" {
			out.Dropped = append(out.Dropped, ports.DroppedCommand{Kind: c.Kind, Reason: reason})
			continue
		}
		out.Commands = append(out.Commands, command.New(p, transaction.SourceLLM, at))
	}

	if len(reply.ContextDelta) > 0 {
		if delta, ok := h.restrictDelta(reply.ContextDelta, req.Stage, out); ok {
			out.Commands = append(out.Commands, command.New(command.ApplyContextDelta{
				Delta:        delta,
				AllowedPaths: append([]string(nil), req.Stage.DeltaPaths...),
			}, transaction.SourceLLM, at))
		}
	}

	logging.FromContext(ctx).DebugContext(ctx, "model interpretation",
		slog.String("operation", "Hybrid.Interpret"),
		slog.String("stage", req.Input.Summary.CurrentStage),
		slog.Int("commands", len(out.Commands)),
		slog.Int("dropped", len(out.Dropped)),
	)
	return out, nil
}

// admit decodes a proposed command and checks it against the allowlist.
func admit(kind command.Kind, payload json.RawMessage, allowed []command.Kind) (command.Payload, string) {
	switch {
	case !kind.IsValid():
		return nil, DropUnknownKind
	case kind.DocumentOnly():
		return nil, DropDocumentOnly
	case kind.SystemOnly():
		return nil, DropSystemOnly
	case !containsKind(allowed, kind):
		return nil, DropNotAllowed
	}
	p, err := command.Decode(kind, payload)
	if err != nil {
		return nil, DropMalformed
	}
	return p, ""
}

func (h *Hybrid) restrictDelta(delta map[string]any, def stage.Definition, out *HybridResult) (map[string]any, bool) {
	if len(def.DeltaPaths) == 0 {
		out.Dropped = append(out.Dropped, ports.DroppedCommand{Kind: command.KindApplyContextDelta, Reason: DropDeltaDisabled})
		return nil, false
	}
	kept, dropped := merge.Restrict(delta, def.DeltaPaths)
	for _, path := range dropped {
		out.Dropped = append(out.Dropped, ports.DroppedCommand{
			Kind:   command.KindApplyContextDelta,
			Reason: DropDeltaPath + ":" + path,
		})
	}
	return kept, len(kept) > 0
}

// userContent renders the context, stage allowlist and recent turns as the
// user message.
func (h *Hybrid) userContent(req HybridRequest) (string, error) {
	history := req.History
	if h.historyTurns >= 0 && len(history) > h.historyTurns {
		history = history[len(history)-h.historyTurns:]
	}

	payload := struct {
		Context         *transaction.Context `json:"context"`
		CurrentStage    string               `json:"current_stage"`
		MissingFields   []string             `json:"missing_fields"`
		AllowedCommands []command.Kind       `json:"allowed_commands"`
		DeltaPaths      []string             `json:"allowed_context_paths"`
		History         []ports.Turn         `json:"recent_turns"`
		Message         string               `json:"user_message"`
	}{
		Context:         req.Input.Context,
		CurrentStage:    req.Input.Summary.CurrentStage,
		MissingFields:   req.Input.Summary.MissingFields,
		AllowedCommands: req.Input.Summary.AllowedCommands,
		DeltaPaths:      req.Stage.DeltaPaths,
		History:         history,
		Message:         req.Input.Text,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unavailable(what string, err error) error {
	if errors.Is(err, domain.ErrUnavailable) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: %w: %w", what, domain.ErrUnavailable, err)
}

// stripFence removes a markdown code fence around a JSON answer.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func containsKind(list []command.Kind, k command.Kind) bool {
	for _, v := range list {
		if v == k {
			return true
		}
	}
	return false
}
