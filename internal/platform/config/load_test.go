package config_test

import (
	"testing"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want \"info\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want \"json\"", cfg.Log.Format)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
	if cfg.Telemetry.Endpoint == "" {
		t.Error("Telemetry.Endpoint is empty, want non-empty for prod")
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want \"0.0.0.0\" (from base)", cfg.Server.Host)
	}
	if cfg.Client.Retry.MaxAttempts != 3 {
		t.Errorf("Client.Retry.MaxAttempts = %d, want 3 (from base)", cfg.Client.Retry.MaxAttempts)
	}
	if cfg.Client.CircuitBreaker.MaxFailures != 5 {
		t.Errorf("Client.CircuitBreaker.MaxFailures = %d, want 5 (from base)",
			cfg.Client.CircuitBreaker.MaxFailures)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", cfg.Server.Port)
	}
}

func TestLoad_EnvironOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		env   string
		check func(*config.Config) bool
	}{
		{
			name:  "snake case key",
			env:   "APP_SERVER_READ_TIMEOUT=15s",
			check: func(c *config.Config) bool { return c.Server.ReadTimeout == 15*time.Second },
		},
		{
			name:  "deeply nested key",
			env:   "APP_CLIENT_RETRY_MAX_ATTEMPTS=7",
			check: func(c *config.Config) bool { return c.Client.Retry.MaxAttempts == 7 },
		},
		{
			name:  "model credential",
			env:   "APP_LLM_API_KEY=sk-test",
			check: func(c *config.Config) bool { return c.LLM.APIKey == "sk-test" },
		},
		{
			name:  "cache url",
			env:   "APP_CACHE_REDIS_URL=redis://cache:6379/1",
			check: func(c *config.Config) bool { return c.Cache.Redis.URL == "redis://cache:6379/1" },
		},
		{
			name:  "document size limit",
			env:   "APP_EXTRACTION_MAX_DOCUMENT_BYTES=1048576",
			check: func(c *config.Config) bool { return c.Extraction.MaxDocumentBytes == 1<<20 },
		},
		{
			name:  "unprefixed variable ignored",
			env:   "SERVER_PORT=1",
			check: func(c *config.Config) bool { return c.Server.Port == 8080 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.Load("local",
				config.WithConfigDir("../../../configs"),
				config.WithEnviron(tt.env),
			)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s not applied: %+v", tt.env, cfg)
			}
		})
	}
}

func TestLoad_WorkflowAndExtractionFromBase(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Workflow.TransactionType != "property_transfer" {
		t.Errorf("Workflow.TransactionType = %q, want property_transfer", cfg.Workflow.TransactionType)
	}
	if cfg.Workflow.LoopGuardThreshold != 3 {
		t.Errorf("Workflow.LoopGuardThreshold = %d, want 3", cfg.Workflow.LoopGuardThreshold)
	}
	if cfg.Extraction.MinDetailCoverage != 0.8 {
		t.Errorf("Extraction.MinDetailCoverage = %g, want 0.8", cfg.Extraction.MinDetailCoverage)
	}
	if cfg.Objects.URLTTL != 15*time.Minute {
		t.Errorf("Objects.URLTTL = %v, want 15m", cfg.Objects.URLTTL)
	}
	if cfg.LLM.Provider != config.ProviderNone {
		t.Errorf("LLM.Provider = %q, want none for local", cfg.LLM.Provider)
	}
}

func TestLoad_ProdUsesDurableBackends(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Cache.Backend != config.BackendRedis {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Store.Backend != config.BackendPostgres {
		t.Errorf("Store.Backend = %q, want postgres", cfg.Store.Backend)
	}
	if cfg.LLM.Provider != config.ProviderOpenAI {
		t.Errorf("LLM.Provider = %q, want openai", cfg.LLM.Provider)
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Server.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for port=0")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Log.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for invalid log level")
	}
}

func TestValidate_OtlpWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp"
	cfg.Telemetry.Endpoint = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for otlp without endpoint")
	}
}

func TestValidate_DomainSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "unknown provider", mutate: func(c *config.Config) { c.LLM.Provider = "llama" }},
		{name: "gemini without key", mutate: func(c *config.Config) {
			c.LLM.Provider = config.ProviderGemini
			c.LLM.Model = "gemini-2.0-flash"
		}},
		{name: "openai without model", mutate: func(c *config.Config) { c.LLM.Provider = config.ProviderOpenAI }},
		{name: "zero loop guard", mutate: func(c *config.Config) { c.Workflow.LoopGuardThreshold = 0 }},
		{name: "coverage above one", mutate: func(c *config.Config) { c.Extraction.MinDetailCoverage = 1.5 }},
		{name: "no concurrency", mutate: func(c *config.Config) { c.Extraction.MaxConcurrentDocuments = 0 }},
		{name: "redis without url", mutate: func(c *config.Config) { c.Cache.Backend = config.BackendRedis }},
		{name: "postgres without dsn", mutate: func(c *config.Config) { c.Store.Backend = config.BackendPostgres }},
		{name: "unknown store", mutate: func(c *config.Config) { c.Store.Backend = "sqlite" }},
		{name: "write timeout within request timeout", mutate: func(c *config.Config) {
			c.Server.RequestTimeout = c.Server.WriteTimeout
		}},
		{name: "rate limit without burst", mutate: func(c *config.Config) {
			c.Client.RateLimit.RequestsPerSecond = 2
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validBaseConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for valid config: %v", err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: config.ClientConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 30 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     10 * time.Second,
				Multiplier:      2.0,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Telemetry: config.TelemetryConfig{
			Enabled:  false,
			Exporter: "stdout",
		},
		LLM: config.LLMConfig{
			Provider: config.ProviderNone,
			Timeout:  30 * time.Second,
		},
		Workflow: config.WorkflowConfig{
			TransactionType:    "property_transfer",
			LoopGuardThreshold: 3,
			HistoryTurns:       6,
		},
		Extraction: config.ExtractionConfig{
			SchemaVersion:          1,
			MinDistinctIdentifiers: 2,
			MinDetailCoverage:      0.8,
			MinTextLength:          200,
			Timeout:                time.Minute,
			MaxConcurrentDocuments: 4,
			MaxDocumentBytes:       20 << 20,
		},
		Cache: config.CacheConfig{Backend: config.BackendMemory},
		Store: config.StoreConfig{Backend: config.BackendMemory},
		Objects: config.ObjectsConfig{
			BaseURL: "http://localhost:8080",
			URLTTL:  15 * time.Minute,
		},
	}
}
