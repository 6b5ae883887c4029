package middleware_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/middleware"
	appctx "github.com/arkus-mindteams/Notary-sub000/internal/app/context"
)

type noopAction struct{ desc string }

func (noopAction) Execute(context.Context) error  { return nil }
func (noopAction) Rollback(context.Context) error { return nil }
func (a noopAction) Description() string          { return a.desc }

func TestAppContext_InjectsRequestContext(t *testing.T) {
	t.Parallel()

	var gotRC *appctx.RequestContext
	handler := middleware.AppContext()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotRC = appctx.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	handler.ServeHTTP(rec, req)

	if gotRC == nil {
		t.Fatal("AppContext middleware did not inject RequestContext into context")
	}
}

func TestAppContext_EachRequestGetsUniqueContext(t *testing.T) {
	t.Parallel()

	var contexts []*appctx.RequestContext
	handler := middleware.AppContext()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		contexts = append(contexts, appctx.FromContext(r.Context()))
	}))

	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		handler.ServeHTTP(rec, req)
	}

	if len(contexts) != 3 {
		t.Fatalf("expected 3 contexts, got %d", len(contexts))
	}

	// Each request should get a distinct RequestContext instance.
	if contexts[0] == contexts[1] || contexts[1] == contexts[2] {
		t.Error("expected each request to get a unique RequestContext")
	}
}

func TestFromContext_ReturnsNilWithoutMiddleware(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		rc := appctx.FromContext(r.Context())
		if rc != nil {
			t.Error("expected nil RequestContext without middleware, got non-nil")
		}
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	handler.ServeHTTP(rec, req)
}

func TestAppContext_FetchesSeeTimeoutDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	handler := middleware.Chain(
		middleware.Timeout(time.Second),
		middleware.AppContext(),
	)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		rc := appctx.FromContext(r.Context())
		_, _ = appctx.GetOrFetch(rc, "tx:tx-1", func(ctx context.Context) (string, error) {
			_, hasDeadline = ctx.Deadline()
			return "", nil
		})
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	if !hasDeadline {
		t.Error("fetch context has no deadline, want the Timeout deadline")
	}
}

func TestAppContext_LogsUncommittedWrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Chain(
		middleware.Logging(testLogger(&buf)),
		middleware.AppContext(),
	)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		rc := appctx.FromContext(r.Context())
		_ = rc.AddAction(noopAction{desc: "put object abc"})
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test", http.NoBody))

	out := buf.String()
	if !strings.Contains(out, "uncommitted writes") || !strings.Contains(out, "put object abc") {
		t.Errorf("log output missing discarded action:\n%s", out)
	}
}

func TestAppContext_CommittedWritesAreNotLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Chain(
		middleware.Logging(testLogger(&buf)),
		middleware.AppContext(),
	)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		rc := appctx.FromContext(r.Context())
		_ = rc.AddAction(noopAction{desc: "save context tx-1"})
		_ = rc.Commit(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/test", http.NoBody))

	if strings.Contains(buf.String(), "uncommitted writes") {
		t.Error("committed request logged as uncommitted")
	}
}
