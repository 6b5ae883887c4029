package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	appctx "github.com/arkus-mindteams/Notary-sub000/internal/app/context"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/interpret"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Turn outcomes reported to metrics.
const (
	resultApplied   = "applied"
	resultNoChange  = "no_change"
	resultFallback  = "fallback"
	resultLoopGuard = "loop_guard"
)

// Compile-time check that TurnService implements ports.WorkflowService.
var _ ports.WorkflowService = (*TurnService)(nil)

// TurnService runs conversational turns.
type TurnService struct {
	engine
	vocab  *facts.Vocabulary
	hybrid *interpret.Hybrid
}

// NewTurnService creates a TurnService. hybrid handles the messages the
// deterministic rules abstain on; a Hybrid without a model makes every such
// turn fall back to asking again.
func NewTurnService(deps Dependencies, vocab *facts.Vocabulary, hybrid *interpret.Hybrid, cfg Config) *TurnService {
	return &TurnService{engine: newEngine(deps, cfg), vocab: vocab, hybrid: hybrid}
}

// ProcessTurn interprets one user message against the transaction.
func (s *TurnService) ProcessTurn(ctx context.Context, req ports.TurnRequest) (*ports.TurnResult, error) {
	if err := validateID(req.TransactionID); err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer("workflow").Start(ctx, "workflow.ProcessTurn")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", req.TransactionID))
	ctx = logging.WithAttrs(ctx, slog.String("transaction_id", req.TransactionID))

	if s.cfg.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.TurnTimeout)
		defer cancel()
	}

	unlock, err := s.locks.Lock(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction %s: %w", req.TransactionID, err)
	}
	defer unlock()

	rc := appctx.FromContextOrNew(ctx)
	tx, stored, err := s.load(rc, req.TransactionID, req.Context, true)
	if err != nil {
		return nil, err
	}
	impl := s.implFor(ctx, tx)
	table := impl.Stages()
	before := stage.Derive(table, tx)

	diag := ports.TurnDiagnostics{Interpreter: interpret.NameNone, Failures: []command.Failure{}}
	in := interpret.Input{
		Text:       req.UserText,
		LastPrompt: lastPrompt(req.History),
		Context:    tx,
		Summary:    before,
		Vocab:      s.vocab,
	}

	var (
		cmds  []command.Command
		reply string
	)
	if res, ok := impl.InterpretFreeText(in); ok {
		diag.Interpreter, diag.Rule = res.Interpreter, res.Rule
		cmds = res.Commands
	} else if s.hybrid != nil {
		def, _ := table.Lookup(before.CurrentStage)
		hr, err := s.hybrid.Interpret(ctx, interpret.HybridRequest{
			Input:   in,
			Stage:   def,
			System:  impl.SystemPrompt(),
			History: req.History,
		})
		if hr != nil {
			diag.TokenUsage.Add(hr.Usage)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "model interpretation unavailable, asking again",
				slog.String("operation", "ProcessTurn"),
				slog.String("transaction_id", req.TransactionID),
				slog.Any("error", err),
			)
			diag.Fallback = err.Error()
		} else {
			diag.Interpreter = interpret.NameHybrid
			diag.DroppedCommands = hr.Dropped
			cmds = hr.Commands
			reply = hr.Reply
		}
	} else {
		diag.Fallback = "no model interpreter configured"
	}

	out, err := s.exec.Execute(ctx, tx, cmds)
	if err != nil {
		span.SetStatus(codes.Error, "turn canceled")
		return nil, fmt.Errorf("executing turn: %w", err)
	}
	diag.Failures = out.Failures
	diag.Events = out.Events

	st, err := s.settle(ctx, table, tx, before, out.Context)
	if err != nil {
		return nil, fmt.Errorf("recording stage: %w", err)
	}
	next := st.Context
	diag.Transition = st.Transition
	diag.Diff = contextDiff(tx, next)

	diag.LoopGuard = s.loopGuard(next, st)

	var message string
	switch {
	case diag.Fallback != "" && !diag.LoopGuard:
		message = impl.FallbackPrompt(st.Summary, next)
	case reply != "" && len(out.Applied) == 0 && !diag.LoopGuard && len(st.Summary.BlockingReasons) == 0:
		message = reply
	default:
		message = impl.Prompt(st.Summary, next, diag.LoopGuard)
	}

	if err := s.stageSave(rc, next, stored); err != nil {
		return nil, err
	}
	if err := rc.Commit(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to save turn",
			slog.String("operation", "ProcessTurn"),
			slog.String("transaction_id", req.TransactionID),
			slog.Any("error", err),
		)
		span.SetStatus(codes.Error, "commit failed")
		return nil, err
	}

	result := resultApplied
	switch {
	case diag.LoopGuard:
		result = resultLoopGuard
	case diag.Fallback != "":
		result = resultFallback
	case len(out.Applied) == 0:
		result = resultNoChange
	}
	s.metrics.RecordTurn(ctx, diag.Interpreter, result)

	s.logger.InfoContext(ctx, "turn processed",
		slog.String("transaction_id", req.TransactionID),
		slog.String("interpreter", diag.Interpreter),
		slog.String("rule", diag.Rule),
		slog.Int("applied", len(out.Applied)),
		slog.Int("failures", len(out.Failures)),
		slog.String("stage", st.Summary.CurrentStage),
		slog.Bool("loop_guard", diag.LoopGuard),
	)

	return &ports.TurnResult{
		Message:         message,
		Context:         next,
		Summary:         st.Summary,
		AppliedCommands: out.Applied,
		Diagnostics:     diag,
	}, nil
}

// loopGuard reports whether the stage has stayed put for the configured
// number of consecutive turns.
func (s *TurnService) loopGuard(tx *transaction.Context, st *settled) bool {
	if st.Summary.Ready() || st.Transition.Rule != stage.RuleStay {
		return false
	}
	return tx.StageMeta.ReaskCounts[st.Summary.CurrentStage] >= s.cfg.LoopGuardThreshold
}

// State derives the summary of tx, or of the stored context.
func (s *TurnService) State(ctx context.Context, id string, tx *transaction.Context) (*ports.StateResult, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	tx, _, err := s.load(appctx.FromContextOrNew(ctx), id, tx, false)
	if err != nil {
		return nil, err
	}
	impl := s.implFor(ctx, tx)
	return &ports.StateResult{Context: tx, Summary: stage.Derive(impl.Stages(), tx)}, nil
}

// BuildDocumentModel validates readiness and builds the renderer model.
func (s *TurnService) BuildDocumentModel(ctx context.Context, id string, tx *transaction.Context) (*ports.DocumentModel, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	tx, _, err := s.load(appctx.FromContextOrNew(ctx), id, tx, false)
	if err != nil {
		return nil, err
	}
	model, err := s.implFor(ctx, tx).BuildDocumentModel(tx, s.now())
	if err != nil {
		s.logger.InfoContext(ctx, "document model refused",
			slog.String("transaction_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return model, nil
}

// lastPrompt returns the latest assistant message of history.
func lastPrompt(history []ports.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "assistant" {
			return history[i].Text
		}
	}
	return ""
}
