package domain

import "context"

// Action is a persistence side effect of a turn or a document submission
// (storing an upload, saving a context) that can be undone.
type Action interface {
	// Execute performs the side effect.
	Execute(ctx context.Context) error

	// Rollback undoes a successful Execute. It is never called after a
	// failed Execute.
	Rollback(ctx context.Context) error

	// Description names the action in logs, e.g. "save context tx-1".
	Description() string
}

// WriteStager queues side effects until the caller commits them.
type WriteStager interface {
	// Stage records entity under key for later reads and queues action.
	Stage(key string, entity any, action Action) error

	// Execute runs action immediately, outside the commit queue.
	Execute(action Action) error
}
