// Package workflow orchestrates turns and document submissions.
//
// Both services follow the same shape: lock the transaction, load or create
// its context through the request context, derive the stage summary, run
// commands through the executor, derive again, record the observed stage
// transition and commit the queued writes. One transaction is processed by
// one request at a time; different transactions proceed in parallel.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	appctx "github.com/arkus-mindteams/Notary-sub000/internal/app/context"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/executor"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/txtype"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/telemetry"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// DefaultLoopGuardThreshold applies when Config leaves it at zero.
const DefaultLoopGuardThreshold = 3

// Config tunes the workflow services.
type Config struct {
	// TransactionType is used for new contexts and for stored contexts whose
	// type is not recognized.
	TransactionType txtype.Type
	// LoopGuardThreshold is the number of consecutive turns the stage may
	// stay unchanged before the reply becomes example-bearing guidance.
	LoopGuardThreshold int
	// TurnTimeout bounds one turn. Zero means no limit beyond ctx.
	TurnTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.LoopGuardThreshold <= 0 {
		c.LoopGuardThreshold = DefaultLoopGuardThreshold
	}
	return c
}

// Dependencies are the collaborators shared by the workflow services.
type Dependencies struct {
	Executor *executor.Executor
	// Store persists contexts. Nil runs the services statelessly: the caller
	// must supply the context and nothing is saved.
	Store   ports.ContextStore
	Metrics *telemetry.Metrics
	Logger  *slog.Logger
	// Locks is shared by every service touching the same transactions.
	Locks *KeyedMutex
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// engine holds what the turn and document services have in common.
type engine struct {
	exec    *executor.Executor
	store   ports.ContextStore
	metrics *telemetry.Metrics
	logger  *slog.Logger
	locks   *KeyedMutex
	now     func() time.Time
	cfg     Config
}

func newEngine(deps Dependencies, cfg Config) engine {
	e := engine{
		exec:    deps.Executor,
		store:   deps.Store,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		locks:   deps.Locks,
		now:     deps.Clock,
		cfg:     cfg.withDefaults(),
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.locks == nil {
		e.locks = NewKeyedMutex()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

func contextKey(id string) string { return "tx:" + id }

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("transaction_id", domain.MsgRequired)
	}
	return nil
}

// load returns the context to work on. A supplied context wins; otherwise
// the stored one is read through rc, and when create is set a missing
// context starts empty. The second return is the stored version, nil when
// nothing was stored.
func (e *engine) load(rc *appctx.RequestContext, id string, supplied *transaction.Context, create bool) (*transaction.Context, *transaction.Context, error) {
	if supplied != nil {
		if supplied.TransactionID != "" && supplied.TransactionID != id {
			return nil, nil, domain.NewValidationError("context.transaction_id", "does not match the transaction in the path")
		}
		tx := supplied.Clone()
		tx.TransactionID = id
		if tx.TransactionType == "" {
			tx.TransactionType = e.cfg.TransactionType.String()
		}
		return tx, nil, nil
	}

	if e.store == nil {
		if create {
			return transaction.New(id, e.cfg.TransactionType.String()), nil, nil
		}
		return nil, nil, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}

	stored, err := appctx.GetOrFetch(rc, contextKey(id), func(ctx context.Context) (*transaction.Context, error) {
		return e.store.Load(ctx, id)
	})
	switch {
	case err == nil:
		return stored.Clone(), stored, nil
	case errors.Is(err, domain.ErrNotFound) && create:
		return transaction.New(id, e.cfg.TransactionType.String()), nil, nil
	default:
		return nil, nil, fmt.Errorf("loading transaction %s: %w", id, err)
	}
}

// implFor returns the implementation recorded on tx, falling back to the
// configured type.
func (e *engine) implFor(ctx context.Context, tx *transaction.Context) txtype.Implementation {
	t, err := txtype.Parse(tx.TransactionType)
	if err != nil {
		e.logger.WarnContext(ctx, "unknown transaction type, using default",
			slog.String("transaction_id", tx.TransactionID),
			slog.String("transaction_type", tx.TransactionType),
		)
		t = e.cfg.TransactionType
	}
	return t.Impl()
}

// settled is the result of recording a transition after commands ran.
type settled struct {
	Context    *transaction.Context
	Summary    stage.Summary
	Transition stage.Transition
	Events     []string
}

// settle derives the summary of next, judges the move from before and
// records it on the context with a system command.
func (e *engine) settle(ctx context.Context, table stage.Table, prev *transaction.Context, before stage.Summary, next *transaction.Context) (*settled, error) {
	after := stage.Derive(table, next)

	from := before
	if prev.StageMeta.CurrentStage == "" {
		from.CurrentStage = ""
	}
	tr := stage.ValidateTransition(table, from, after, transaction.ChangedFields(prev, next))

	record := command.New(command.RecordStageTransition{
		From:  tr.From,
		To:    tr.To,
		Valid: tr.Valid,
		Rule:  tr.Rule,
		At:    e.now(),
	}, transaction.SourceSystem, e.now())
	out, err := e.exec.Execute(ctx, next, []command.Command{record})
	if err != nil {
		return nil, err
	}
	if len(out.Failures) > 0 {
		e.logger.WarnContext(ctx, "stage transition not recorded",
			slog.String("operation", "settle"),
			slog.String("transaction_id", next.TransactionID),
			slog.String("error", out.Failures[0].Message),
		)
	}
	if !tr.Valid {
		e.logger.InfoContext(ctx, "irregular stage transition",
			slog.String("transaction_id", next.TransactionID),
			slog.String("from", tr.From),
			slog.String("to", tr.To),
			slog.String("rule", tr.Rule),
		)
	}
	return &settled{Context: out.Context, Summary: after, Transition: tr, Events: out.Events}, nil
}

// stageSave queues the write of next. A stateless engine queues nothing.
func (e *engine) stageSave(rc *appctx.RequestContext, next, stored *transaction.Context) error {
	if e.store == nil {
		return nil
	}
	return rc.Stage(contextKey(next.TransactionID), next, &saveContext{store: e.store, next: next, prev: stored})
}

// saveContext writes a context; its rollback restores the previous version
// when there was one.
type saveContext struct {
	store ports.ContextStore
	next  *transaction.Context
	prev  *transaction.Context
}

func (a *saveContext) Execute(ctx context.Context) error {
	return a.store.Save(ctx, a.next)
}

func (a *saveContext) Rollback(ctx context.Context) error {
	if a.prev == nil {
		return nil
	}
	return a.store.Save(ctx, a.prev)
}

func (a *saveContext) Description() string {
	return "save context " + a.next.TransactionID
}

var diffOptions = cmp.Options{
	cmpopts.EquateEmpty(),
	cmpopts.IgnoreFields(transaction.Context{}, "StageMeta"),
}

// contextDiff renders what a request changed, ignoring stage bookkeeping.
func contextDiff(before, after *transaction.Context) string {
	return cmp.Diff(before, after, diffOptions)
}
