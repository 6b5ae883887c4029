package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/middleware"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/logging"
)

func TestLogging_LogsStartAndCompletion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := testLogger(&buf)

	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", http.NoBody)
	handler.ServeHTTP(rec, req)

	output := buf.String()
	if !strings.Contains(output, "request started") {
		t.Error("log output missing 'request started'")
	}
	if !strings.Contains(output, "request completed") {
		t.Error("log output missing 'request completed'")
	}
	if !strings.Contains(output, "POST") {
		t.Error("log output missing method")
	}
	if !strings.Contains(output, "/items") {
		t.Error("log output missing path")
	}
}

func TestLogging_EnrichesLoggerWithIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := testLogger(&buf)

	// Chain: RequestID → CorrelationID → Logging → handler
	handler := middleware.RequestID()(
		middleware.CorrelationID()(
			middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})),
		),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-log-test")
	req.Header.Set("X-Correlation-ID", "corr-log-test")
	handler.ServeHTTP(rec, req)

	output := buf.String()
	if !strings.Contains(output, "req-log-test") {
		t.Error("log output missing request_id")
	}
	if !strings.Contains(output, "corr-log-test") {
		t.Error("log output missing correlation_id")
	}
}

func TestLogging_StoresEnrichedLoggerInContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := testLogger(&buf)

	var contextLoggerFound bool
	handler := middleware.RequestID()(
		middleware.Logging(logger)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			ctxLogger := logging.FromContext(r.Context())
			// The context logger should be the enriched one, not slog.Default().
			contextLoggerFound = ctxLogger != nil
			ctxLogger.Info("handler log")
		})),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "ctx-logger-test")
	handler.ServeHTTP(rec, req)

	if !contextLoggerFound {
		t.Error("logging.FromContext returned nil, want enriched logger")
	}

	output := buf.String()
	if !strings.Contains(output, "handler log") {
		t.Error("handler log not captured, enriched logger may not be stored in context")
	}
	if !strings.Contains(output, "ctx-logger-test") {
		t.Error("handler log missing request_id from enriched logger")
	}
}

func TestLogging_IncludesDuration(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := testLogger(&buf)

	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	handler.ServeHTTP(rec, req)

	output := buf.String()
	if !strings.Contains(output, "duration") {
		t.Error("log output missing duration")
	}
}

func TestLogging_IncludesStatusCode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := testLogger(&buf)

	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", http.NoBody)
	handler.ServeHTTP(rec, req)

	output := buf.String()
	if !strings.Contains(output, "status=404") {
		t.Errorf("log output missing status=404, got: %s", output)
	}
}

func TestLogging_IncludesRouteAndTransaction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(middleware.Logging(testLogger(&buf)))
	r.Get("/api/v1/transactions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"transaction_id":"tx-7"}`))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/transactions/tx-7", http.NoBody))

	output := buf.String()
	for _, want := range []string{"route=/api/v1/transactions/{id}", "transaction_id=tx-7", "bytes=25"} {
		if !strings.Contains(output, want) {
			t.Errorf("log output missing %q, got: %s", want, output)
		}
	}
}

func TestLogging_RedactsSignature(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := middleware.Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/objects/tx-1/ab?expires=1&signature=deadbeef", http.NoBody)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if strings.Contains(buf.String(), "deadbeef") {
		t.Errorf("log output leaks the signature: %s", buf.String())
	}
}
