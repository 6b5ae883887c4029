package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"sync"

	"github.com/samber/do/v2"

	cachememory "github.com/arkus-mindteams/Notary-sub000/internal/adapters/cache/memory"
	cacheredis "github.com/arkus-mindteams/Notary-sub000/internal/adapters/cache/redis"
	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/clients/llm/gemini"
	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/clients/llm/openai"
	adapthttp "github.com/arkus-mindteams/Notary-sub000/internal/adapters/http"
	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/handlers"
	"github.com/arkus-mindteams/Notary-sub000/internal/adapters/http/middleware"
	objmemory "github.com/arkus-mindteams/Notary-sub000/internal/adapters/objects/memory"
	storememory "github.com/arkus-mindteams/Notary-sub000/internal/adapters/store/memory"
	storepostgres "github.com/arkus-mindteams/Notary-sub000/internal/adapters/store/postgres"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/executor"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/extraction"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/interpret"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/txtype"
	"github.com/arkus-mindteams/Notary-sub000/internal/app/workflow"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/document"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/handler"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/config"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/health"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/httpclient"
	"github.com/arkus-mindteams/Notary-sub000/internal/platform/telemetry"
	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// closerList collects backend connections closed after the server drains.
type closerList struct {
	mu      sync.Mutex
	closers []io.Closer
}

func (c *closerList) add(closer io.Closer) {
	c.mu.Lock()
	c.closers = append(c.closers, closer)
	c.mu.Unlock()
}

// Close closes in reverse order of registration.
func (c *closerList) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// modelBackend is the configured model client. Both fields are nil when no
// provider is configured.
type modelBackend struct {
	llm     ports.LLM
	checker ports.HealthChecker
}

type cacheBackend struct {
	cache   ports.ExtractionCache
	checker ports.HealthChecker
}

type storeBackend struct {
	store   ports.ContextStore
	checker ports.HealthChecker
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	registerBackends(injector, cfg, logger)
	registerApp(injector, cfg, logger)
	registerHTTP(injector, cfg, logger)
}

func registerBackends(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*modelBackend, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return newModelBackend(cfg, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (*cacheBackend, error) {
		closers := do.MustInvoke[*closerList](i)
		switch cfg.Cache.Backend {
		case config.BackendRedis:
			client, err := cacheredis.Connect(context.Background(), cfg.Cache.Redis)
			if err != nil {
				return nil, err
			}
			closers.add(client)
			c := cacheredis.New(client, cfg.Cache.TTL)
			return &cacheBackend{cache: c, checker: c}, nil
		default:
			return &cacheBackend{cache: cachememory.New(cfg.Cache.TTL)}, nil
		}
	})

	do.Provide(injector, func(i do.Injector) (*storeBackend, error) {
		closers := do.MustInvoke[*closerList](i)
		switch cfg.Store.Backend {
		case config.BackendPostgres:
			ctx := context.Background()
			db, err := storepostgres.Open(ctx, cfg.Store)
			if err != nil {
				return nil, err
			}
			closers.add(db)
			s := storepostgres.New(db)
			if err := s.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("migrating context store: %w", err)
			}
			return &storeBackend{store: s, checker: s}, nil
		default:
			s := storememory.New()
			return &storeBackend{store: s, checker: s}, nil
		}
	})

	do.Provide(injector, func(_ do.Injector) (*objmemory.Store, error) {
		return objmemory.New(cfg.Objects.BaseURL, cfg.Objects.SigningKey)
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})
}

// newModelBackend builds the client for the configured provider.
func newModelBackend(cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*modelBackend, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		httpClient := httpclient.New(&cfg.Client, "llm-openai", metrics, logger)
		c := openai.New(httpClient, openai.Config{
			Model:       cfg.LLM.Model,
			VisionModel: cfg.LLM.VisionModel,
			APIKey:      cfg.LLM.APIKey,
		}, metrics, logger)
		return &modelBackend{llm: c, checker: c}, nil
	case config.ProviderGemini:
		c, err := gemini.New(context.Background(), gemini.Config{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			VisionModel: cfg.LLM.VisionModel,
		}, metrics, logger)
		if err != nil {
			return nil, err
		}
		return &modelBackend{llm: c, checker: c}, nil
	default:
		logger.Warn("no model provider configured; turns use deterministic rules only and document extraction is unavailable")
		return &modelBackend{}, nil
	}
}

func registerApp(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (workflow.Dependencies, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		store := do.MustInvoke[*storeBackend](i)
		return workflow.Dependencies{
			Executor: executor.New(handler.New(facts.Default()), metrics),
			Store:    store.store,
			Metrics:  metrics,
			Logger:   logger,
			Locks:    workflow.NewKeyedMutex(),
		}, nil
	})

	do.Provide(injector, func(_ do.Injector) (workflow.Config, error) {
		txType, err := txtype.Parse(cfg.Workflow.TransactionType)
		if err != nil {
			return workflow.Config{}, fmt.Errorf("workflow.transaction_type: %w", err)
		}
		return workflow.Config{
			TransactionType:    txType,
			LoopGuardThreshold: cfg.Workflow.LoopGuardThreshold,
			TurnTimeout:        cfg.Workflow.TurnTimeout,
		}, nil
	})

	do.Provide(injector, func(i do.Injector) (ports.WorkflowService, error) {
		deps := do.MustInvoke[workflow.Dependencies](i)
		wcfg := do.MustInvoke[workflow.Config](i)
		model := do.MustInvoke[*modelBackend](i)
		hybrid := interpret.NewHybrid(model.llm, cfg.LLM.Timeout, cfg.Workflow.HistoryTurns)
		return workflow.NewTurnService(deps, facts.Default(), hybrid, wcfg), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.DocumentService, error) {
		deps := do.MustInvoke[workflow.Dependencies](i)
		wcfg := do.MustInvoke[workflow.Config](i)
		model := do.MustInvoke[*modelBackend](i)
		cache := do.MustInvoke[*cacheBackend](i)
		objects := do.MustInvoke[*objmemory.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		pipeline := extraction.New(model.llm, cache.cache, metrics, extraction.Config{
			SchemaVersion: cfg.Extraction.SchemaVersion,
			Thresholds: document.Thresholds{
				MinDistinctIdentifiers: cfg.Extraction.MinDistinctIdentifiers,
				MinDetailCoverage:      cfg.Extraction.MinDetailCoverage,
				MinTextLength:          cfg.Extraction.MinTextLength,
			},
			Timeout: cfg.Extraction.Timeout,
		})
		return workflow.NewDocumentService(deps, pipeline, objects, wcfg, workflow.DocumentConfig{
			MaxConcurrentDocuments: cfg.Extraction.MaxConcurrentDocuments,
			MaxDocumentBytes:       cfg.Extraction.MaxDocumentBytes,
		}), nil
	})
}

func registerHTTP(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*handlers.TransactionHandler, error) {
		return handlers.NewTransactionHandler(
			do.MustInvoke[ports.WorkflowService](i),
			do.MustInvoke[ports.DocumentService](i),
			do.MustInvoke[*objmemory.Store](i),
			handlers.TransactionHandlerConfig{
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				URLTTL:       cfg.Objects.URLTTL,
			},
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		var degradable []string
		for _, c := range []ports.HealthChecker{
			do.MustInvoke[*modelBackend](i).checker,
			do.MustInvoke[*cacheBackend](i).checker,
		} {
			if c != nil {
				degradable = append(degradable, c.Name())
			}
		}
		return handlers.NewHealthHandler(registry, degradable...), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ObjectHandler, error) {
		return handlers.NewObjectHandler(do.MustInvoke[*objmemory.Store](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		txH := do.MustInvoke[*handlers.TransactionHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		objH := do.MustInvoke[*handlers.ObjectHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(txH, healthH, objH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.RequestTimeout),
			middleware.AppContext(),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

// registerHealthCheckers adds the model, cache and store checkers that the
// configured backends provide.
func registerHealthCheckers(injector *do.RootScope) {
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	for _, checker := range []ports.HealthChecker{
		do.MustInvoke[*modelBackend](injector).checker,
		do.MustInvoke[*cacheBackend](injector).checker,
		do.MustInvoke[*storeBackend](injector).checker,
	} {
		if checker != nil {
			registry.Register(checker)
		}
	}
}
