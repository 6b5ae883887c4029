package appctx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

// Commit runs the queued actions in order. When one fails, the ones before
// it are rolled back in reverse order and the failure is returned wrapped
// with its description. Commit may run once; later calls return
// ErrAlreadyCommitted.
func (rc *RequestContext) Commit(ctx context.Context) error {
	rc.queueMu.Lock()
	if rc.committed {
		rc.queueMu.Unlock()
		return ErrAlreadyCommitted
	}
	rc.committed = true
	items := rc.items
	rc.queueMu.Unlock()

	logger := logging.FromContext(ctx)
	for i, item := range items {
		logger.DebugContext(ctx, "executing action",
			slog.String("operation", "RequestContext.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(items)),
			slog.String("action", item.description()),
		)
		if err := item.execute(ctx); err != nil {
			logger.ErrorContext(ctx, "action failed, rolling back",
				slog.String("operation", "RequestContext.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", item.description()),
				slog.Any("error", err),
			)
			rollback(ctx, items[:i], logger)
			return fmt.Errorf("executing %s: %w", item.description(), err)
		}
	}
	return nil
}

func rollback(ctx context.Context, items []actionItem, logger *slog.Logger) {
	for i := len(items) - 1; i >= 0; i-- {
		if err := items[i].rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("operation", "RequestContext.Commit"),
				slog.Int("step", i+1),
				slog.String("action", items[i].description()),
				slog.Any("error", err),
			)
		}
	}
}
