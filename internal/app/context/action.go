package appctx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

type actionItem interface {
	execute(ctx context.Context) error
	rollback(ctx context.Context) error
	description() string
}

type singleAction struct {
	action domain.Action
}

func (s *singleAction) execute(ctx context.Context) error  { return s.action.Execute(ctx) }
func (s *singleAction) rollback(ctx context.Context) error { return s.action.Rollback(ctx) }
func (s *singleAction) description() string                { return s.action.Description() }

// actionGroup runs independent actions concurrently, e.g. the uploads of a
// document batch. The first failure cancels the others and rolls back the
// ones that finished.
type actionGroup struct {
	actions []domain.Action

	mu        sync.Mutex
	completed []int
}

func (g *actionGroup) execute(ctx context.Context) error {
	g.completed = nil
	eg, egCtx := errgroup.WithContext(ctx)
	for i, a := range g.actions {
		eg.Go(func() error {
			if err := a.Execute(egCtx); err != nil {
				return err
			}
			g.mu.Lock()
			g.completed = append(g.completed, i)
			g.mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		g.rollbackCompleted(ctx)
		return err
	}
	return nil
}

func (g *actionGroup) rollback(ctx context.Context) error {
	g.rollbackCompleted(ctx)
	return nil
}

// rollbackCompleted undoes finished actions in reverse declaration order.
func (g *actionGroup) rollbackCompleted(ctx context.Context) {
	done := make([]bool, len(g.actions))
	for _, i := range g.completed {
		done[i] = true
	}
	logger := logging.FromContext(ctx)
	for i := len(g.actions) - 1; i >= 0; i-- {
		if !done[i] {
			continue
		}
		if err := g.actions[i].Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed in action group",
				slog.String("operation", "actionGroup.rollback"),
				slog.String("action", g.actions[i].Description()),
				slog.Any("error", err),
			)
		}
	}
	g.completed = nil
}

func (g *actionGroup) description() string {
	switch len(g.actions) {
	case 0:
		return "empty action group"
	case 1:
		return g.actions[0].Description()
	default:
		return fmt.Sprintf("%d actions (%s, ...)", len(g.actions), g.actions[0].Description())
	}
}

// AddAction queues action.
func (rc *RequestContext) AddAction(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	return rc.enqueue(&singleAction{action: action})
}

// AddGroup queues actions to run concurrently when their turn comes. An
// empty group is ignored.
func (rc *RequestContext) AddGroup(actions ...domain.Action) error {
	for _, a := range actions {
		if a == nil {
			return ErrNilAction
		}
	}
	if len(actions) == 0 {
		return nil
	}
	return rc.enqueue(&actionGroup{actions: actions})
}

func (rc *RequestContext) enqueue(item actionItem) error {
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()
	if rc.committed {
		return ErrAlreadyCommitted
	}
	rc.items = append(rc.items, item)
	return nil
}
