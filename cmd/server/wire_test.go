package main

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/do/v2"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/config"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/telemetry"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func TestCloserList_ReverseOrderAndJoinedErrors(t *testing.T) {
	t.Parallel()

	var order []int
	boom := errors.New("boom")
	c := &closerList{}
	c.add(closeFunc(func() error { order = append(order, 1); return nil }))
	c.add(closeFunc(func() error { order = append(order, 2); return boom }))

	if err := c.Close(); !errors.Is(err, boom) {
		t.Errorf("Close() = %v, want boom", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("close order = %v, want [2 1]", order)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}

func TestNewModelBackend_Providers(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)

	none := &config.Config{LLM: config.LLMConfig{Provider: config.ProviderNone}}
	got, err := newModelBackend(none, nil, logger)
	if err != nil {
		t.Fatalf("newModelBackend(none) error = %v", err)
	}
	if got.llm != nil || got.checker != nil {
		t.Errorf("none provider = %+v, want empty backend", got)
	}

	oa := &config.Config{LLM: config.LLMConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "k"}}
	oa.Client.BaseURL = "https://api.openai.com"
	got, err = newModelBackend(oa, nil, logger)
	if err != nil {
		t.Fatalf("newModelBackend(openai) error = %v", err)
	}
	if got.llm == nil || got.checker == nil || got.checker.Name() != "llm-openai" {
		t.Errorf("openai backend = %+v", got)
	}

	gm := &config.Config{LLM: config.LLMConfig{Provider: config.ProviderGemini, Model: "gemini-2.0-flash"}}
	if _, err := newModelBackend(gm, nil, logger); err == nil {
		t.Error("newModelBackend(gemini) without key returned nil error")
	}
}

func TestRegisterDependencies_InMemoryGraph(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		LLM:      config.LLMConfig{Provider: config.ProviderNone},
		Cache:    config.CacheConfig{Backend: config.BackendMemory},
		Store:    config.StoreConfig{Backend: config.BackendMemory},
		Objects:  config.ObjectsConfig{BaseURL: "http://localhost:8080"},
		Workflow: config.WorkflowConfig{TransactionType: "property_transfer"},
	}
	logger := slog.New(slog.DiscardHandler)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, (*telemetry.Metrics)(nil))
	do.ProvideValue(injector, &closerList{})
	registerDependencies(injector, cfg, logger)

	if _, err := do.Invoke[ports.WorkflowService](injector); err != nil {
		t.Fatalf("resolving workflow service: %v", err)
	}
	if _, err := do.Invoke[ports.DocumentService](injector); err != nil {
		t.Fatalf("resolving document service: %v", err)
	}

	registerHealthCheckers(injector)
	results := do.MustInvoke[ports.HealthRegistry](injector).CheckAll(t.Context())
	if _, ok := results["context-store"]; !ok {
		t.Errorf("health checks = %v, want context-store registered", results)
	}
	if len(results) != 1 {
		t.Errorf("health checks = %v, want only the store with no model and a memory cache", results)
	}
}

func TestShutdownGrace(t *testing.T) {
	t.Parallel()

	short := &config.Config{Server: config.ServerConfig{RequestTimeout: time.Second}}
	if got := shutdownGrace(short); got != minShutdownGrace {
		t.Errorf("shutdownGrace(1s) = %v, want %v", got, minShutdownGrace)
	}

	long := &config.Config{Server: config.ServerConfig{RequestTimeout: 90 * time.Second}}
	if got := shutdownGrace(long); got != 95*time.Second {
		t.Errorf("shutdownGrace(90s) = %v, want 95s", got)
	}
}
