// Package appctx is the unit of work of one turn or document submission.
//
// A RequestContext memoizes the reads a request makes (the stored
// transaction context, cached extractions) and queues the writes it wants to
// make (uploaded objects, the saved context). Nothing is written until
// Commit; a failed write rolls back the ones before it, so an upload whose
// context could not be saved is deleted again.
//
//	rc := appctx.New(ctx)
//	tx, err := appctx.GetOrFetch(rc, "tx:"+id, load)
//	rc.AddGroup(putUploads...)
//	rc.Stage("tx:"+id, next, saveAction)
//	err = rc.Commit(ctx)
package appctx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain"
)

var _ domain.WriteStager = (*RequestContext)(nil)

var (
	// ErrAlreadyCommitted is returned when actions are queued or committed
	// after Commit.
	ErrAlreadyCommitted = errors.New("appctx: request context already committed")

	// ErrNilAction is returned for a nil action.
	ErrNilAction = errors.New("appctx: nil action")

	// ErrTypeMismatch is returned by GetOrFetch when a key is reused with a
	// different type.
	ErrTypeMismatch = errors.New("appctx: cached value type mismatch")
)

// RequestContext is request-scoped. Reads through GetOrFetch are meant for
// the request goroutine; queueing actions is safe from any goroutine, which
// lets batch workers stage their own uploads.
type RequestContext struct {
	context.Context

	cacheMu sync.Mutex
	cache   map[string]cacheEntry

	queueMu   sync.Mutex
	items     []actionItem
	committed bool
}

type cacheEntry struct {
	value any
	err   error
}

// New wraps ctx.
func New(ctx context.Context) *RequestContext {
	return &RequestContext{Context: ctx, cache: make(map[string]cacheEntry)}
}

// GetOrFetch returns the memoized value for key, calling fetch on the first
// use. Errors are memoized too, so a missing context is looked up once.
func GetOrFetch[T any](rc *RequestContext, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	rc.cacheMu.Lock()
	entry, ok := rc.cache[key]
	rc.cacheMu.Unlock()
	if ok {
		if entry.err != nil {
			return zero, entry.err
		}
		v, ok := entry.value.(T)
		if !ok {
			return zero, fmt.Errorf("%w: key %q holds %T, requested %T", ErrTypeMismatch, key, entry.value, zero)
		}
		return v, nil
	}

	v, err := fetch(rc.Context)
	rc.cacheMu.Lock()
	rc.cache[key] = cacheEntry{value: v, err: err}
	rc.cacheMu.Unlock()
	return v, err
}

// Stage replaces the memoized value of key with entity and queues action.
// Later reads of key see entity before it is written.
func (rc *RequestContext) Stage(key string, entity any, action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()
	if rc.committed {
		return ErrAlreadyCommitted
	}

	rc.cacheMu.Lock()
	rc.cache[key] = cacheEntry{value: entity}
	rc.cacheMu.Unlock()
	rc.items = append(rc.items, &singleAction{action: action})
	return nil
}

// Execute runs action now. It is not queued and Commit never rolls it back.
func (rc *RequestContext) Execute(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	return action.Execute(rc.Context)
}

// Pending returns the descriptions of the queued actions.
func (rc *RequestContext) Pending() []string {
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()
	out := make([]string, len(rc.items))
	for i, item := range rc.items {
		out[i] = item.description()
	}
	return out
}

// Uncommitted returns the descriptions of queued actions when Commit never
// ran, nil otherwise.
func (rc *RequestContext) Uncommitted() []string {
	rc.queueMu.Lock()
	committed := rc.committed
	rc.queueMu.Unlock()
	if committed {
		return nil
	}
	return rc.Pending()
}

type ctxKey struct{}

// WithRequestContext stores rc in ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the RequestContext stored by WithRequestContext, or
// nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(ctxKey{}).(*RequestContext)
	return rc
}

// FromContextOrNew returns the stored RequestContext, or a fresh one over
// ctx when the caller is not an HTTP request (CLI, tests).
func FromContextOrNew(ctx context.Context) *RequestContext {
	if rc := FromContext(ctx); rc != nil {
		return rc
	}
	return New(ctx)
}
