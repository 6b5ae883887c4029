// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Client     ClientConfig     `koanf:"client"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	LLM        LLMConfig        `koanf:"llm"`
	Workflow   WorkflowConfig   `koanf:"workflow"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Cache      CacheConfig      `koanf:"cache"`
	Store      StoreConfig      `koanf:"store"`
	Objects    ObjectsConfig    `koanf:"objects"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// ReadTimeout bounds reading request headers. Bodies, which carry
	// document uploads, may take up to RequestTimeout.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	// RequestTimeout bounds one request in the middleware chain; zero
	// disables it. Document batches run several model calls, so this is
	// longer than a plain API.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// MaxBodyBytes caps request bodies, including multipart uploads.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClientConfig holds outbound HTTP client settings. It is used by the
// OpenAI-compatible model client.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds client-side rate limiting settings. A zero
// RequestsPerSecond disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// Model providers.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// LLMConfig selects and tunes the language/vision model.
type LLMConfig struct {
	// Provider is one of none, openai, gemini. With none the service runs on
	// deterministic rules only and document extraction is unavailable.
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	// VisionModel is used for document extraction; empty means Model.
	VisionModel string        `koanf:"vision_model"`
	APIKey      string        `koanf:"api_key"`
	Timeout     time.Duration `koanf:"timeout"`
}

// WorkflowConfig tunes conversational turns.
type WorkflowConfig struct {
	TransactionType    string        `koanf:"transaction_type"`
	LoopGuardThreshold int           `koanf:"loop_guard_threshold"`
	HistoryTurns       int           `koanf:"history_turns"`
	TurnTimeout        time.Duration `koanf:"turn_timeout"`
}

// ExtractionConfig tunes the document extraction pipeline.
type ExtractionConfig struct {
	SchemaVersion          int           `koanf:"schema_version"`
	MinDistinctIdentifiers int           `koanf:"min_distinct_identifiers"`
	MinDetailCoverage      float64       `koanf:"min_detail_coverage"`
	MinTextLength          int           `koanf:"min_text_length"`
	Timeout                time.Duration `koanf:"timeout"`
	MaxConcurrentDocuments int           `koanf:"max_concurrent_documents"`
	MaxDocumentBytes       int           `koanf:"max_document_bytes"`
}

// Backends for the cache and the context store.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// CacheConfig selects the extraction cache.
type CacheConfig struct {
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`
	Redis   RedisConfig   `koanf:"redis"`
}

// RedisConfig holds go-redis connection settings.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// StoreConfig selects where transaction contexts are persisted.
type StoreConfig struct {
	Backend         string        `koanf:"backend"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// ObjectsConfig configures the uploaded-document object store.
type ObjectsConfig struct {
	// BaseURL prefixes retrieval URLs handed out for stored documents.
	BaseURL string        `koanf:"base_url"`
	URLTTL  time.Duration `koanf:"url_ttl"`
	// SigningKey signs retrieval URLs. Empty generates a key at startup.
	SigningKey string `koanf:"signing_key"`
}
