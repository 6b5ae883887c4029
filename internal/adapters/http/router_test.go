package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	adapthttp "github.com/arkus-mindteams/Notary-sub000/internal/adapters/http"
	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/handlers"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
	"github.com/arkus-mindteams/Notary-sub000/mocks"
)

type stubOpener struct{}

func (stubOpener) Open(ref, _, _ string) ([]byte, string, error) {
	return []byte(ref), "text/plain", nil
}

func newTestRouter(t *testing.T, middlewares ...func(http.Handler) http.Handler) (http.Handler, *mocks.MockWorkflowService, *mocks.MockHealthRegistry) {
	t.Helper()
	workflow := mocks.NewMockWorkflowService(t)
	documents := mocks.NewMockDocumentService(t)
	registry := mocks.NewMockHealthRegistry(t)

	th := handlers.NewTransactionHandler(workflow, documents, nil, handlers.TransactionHandlerConfig{})
	hh := handlers.NewHealthHandler(registry)
	oh := handlers.NewObjectHandler(stubOpener{})

	return adapthttp.NewRouter(th, hh, oh, middlewares...), workflow, registry
}

func TestRouter_AllRoutesRegistered(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	expectedRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health/live"},
		{http.MethodGet, "/health/ready"},
		{http.MethodGet, "/objects/*"},
		{http.MethodGet, "/api/v1/transactions/{id}"},
		{http.MethodPost, "/api/v1/transactions/{id}/turns"},
		{http.MethodPost, "/api/v1/transactions/{id}/documents"},
		{http.MethodPost, "/api/v1/transactions/{id}/documents:batch"},
		{http.MethodPost, "/api/v1/transactions/{id}/state"},
		{http.MethodPost, "/api/v1/transactions/{id}/document-model"},
	}

	chiRouter, ok := router.(*chi.Mux)
	if !ok {
		t.Fatal("router is not *chi.Mux")
	}

	registered := make(map[string]bool)
	err := chi.Walk(chiRouter, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk error: %v", err)
	}

	for _, expected := range expectedRoutes {
		key := expected.method + " " + expected.path
		if !registered[key] {
			t.Errorf("route %s not registered", key)
		}
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	t.Parallel()

	called := false
	testMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	router, _, registry := newTestRouter(t, testMW)
	registry.EXPECT().CheckAll(mock.Anything).Return(map[string]error{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	router.ServeHTTP(rec, req)

	if !called {
		t.Error("middleware was not called")
	}
}

func TestRouter_IntegrationState(t *testing.T) {
	t.Parallel()

	router, workflow, _ := newTestRouter(t)

	workflow.EXPECT().State(mock.Anything, "tx-1", (*transaction.Context)(nil)).Return(&ports.StateResult{
		Context: transaction.New("tx-1", "preaviso"),
		Summary: stage.Summary{CurrentStage: "parties"},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/tx-1/state", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"current_stage":"parties"`) {
		t.Errorf("body = %s, want stage summary", rec.Body.String())
	}
}

func TestRouter_ObjectsWildcard(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/objects/tx-1/abc?expires=1&signature=x", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "tx-1/abc" {
		t.Errorf("status = %d body = %q, want ref echoed", rec.Code, rec.Body.String())
	}
}

func TestRouter_NotFoundReturns404(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/transactions/tx-1/turns", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
