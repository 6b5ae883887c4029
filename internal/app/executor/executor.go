// Package executor applies command lists to a transaction context with
// per-command retry-once-then-rollback semantics.
//
// Commands run sequentially against a working snapshot. Each attempt runs
// the handler on a fresh clone of the snapshot, so a failed attempt leaves
// nothing behind. A command that fails twice is recorded as rolled back and
// the remaining commands still run. Validation failures and conflicts are
// recorded and skipped without a retry.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/telemetry"
)

// maxAttempts is one try plus one retry.
const maxAttempts = 2

// Handler applies one command to a context. It must not modify its input.
type Handler interface {
	Apply(cmd command.Command, tx *transaction.Context) (*transaction.Context, []string, error)
}

// Outcome is the result of executing a command list.
type Outcome struct {
	Context  *transaction.Context
	Applied  []command.Command
	Failures []command.Failure
	Events   []string
}

// Executor runs command lists through a Handler.
type Executor struct {
	handler Handler
	metrics *telemetry.Metrics
}

// New creates an Executor. metrics may be nil.
func New(handler Handler, metrics *telemetry.Metrics) *Executor {
	return &Executor{handler: handler, metrics: metrics}
}

// Execute applies cmds in order to a snapshot of tx and returns the adopted
// result. tx itself is never modified. If ctx is canceled between commands,
// Execute returns ctx.Err() and no result; the caller discards the turn.
func (e *Executor) Execute(ctx context.Context, tx *transaction.Context, cmds []command.Command) (*Outcome, error) {
	logger := logging.FromContext(ctx)
	out := &Outcome{
		Context:  tx.Clone(),
		Applied:  []command.Command{},
		Failures: []command.Failure{},
	}

	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, events, failure := e.run(ctx, cmd, out.Context)
		if failure != nil {
			out.Failures = append(out.Failures, *failure)
			e.metrics.RecordCommandFailure(ctx, string(cmd.Kind()), failure.RolledBack)
			logger.WarnContext(ctx, "command not applied",
				slog.String("operation", "Executor.Execute"),
				slog.Int("step", i+1),
				slog.Int("total", len(cmds)),
				slog.String("kind", string(cmd.Kind())),
				slog.Int("retry_count", failure.RetryCount),
				slog.Bool("rolled_back", failure.RolledBack),
				slog.String("error", failure.Message),
			)
			continue
		}

		out.Context = next
		out.Applied = append(out.Applied, cmd)
		out.Events = append(out.Events, events...)
		logger.DebugContext(ctx, "command applied",
			slog.String("operation", "Executor.Execute"),
			slog.Int("step", i+1),
			slog.Int("total", len(cmds)),
			slog.String("kind", string(cmd.Kind())),
			slog.Any("events", events),
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// run attempts cmd against snapshot up to maxAttempts times. snapshot is
// never modified.
func (e *Executor) run(ctx context.Context, cmd command.Command, snapshot *transaction.Context) (*transaction.Context, []string, *command.Failure) {
	var lastErr error
	for attempt := range maxAttempts {
		next, events, err := e.attempt(cmd, snapshot.Clone())
		if err == nil {
			return next, events, nil
		}
		lastErr = err

		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrConflict) {
			return nil, nil, &command.Failure{
				Kind:       cmd.Kind(),
				Message:    err.Error(),
				RetryCount: attempt,
				Skipped:    true,
			}
		}
		if ctx.Err() != nil {
			break
		}
	}

	rb := &domain.RollbackError{CommandKind: string(cmd.Kind()), Retries: maxAttempts - 1, Err: lastErr}
	return nil, nil, &command.Failure{
		Kind:       cmd.Kind(),
		Message:    rb.Error(),
		RetryCount: maxAttempts - 1,
		RolledBack: true,
	}
}

// attempt runs the handler once, turning a panic into an error.
func (e *Executor) attempt(cmd command.Command, tx *transaction.Context) (next *transaction.Context, events []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, events = nil, nil
			err = fmt.Errorf("handler panic on %s: %v", cmd.Kind(), r)
		}
	}()

	next, events, err = e.handler.Apply(cmd, tx)
	if err == nil && next == nil {
		err = fmt.Errorf("handler returned no context for %s", cmd.Kind())
	}
	return next, events, err
}
