package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Client.validate(),
		c.Telemetry.validate(),
		c.LLM.validate(),
		c.Workflow.validate(),
		c.Extraction.validate(),
		c.Cache.validate(),
		c.Store.validate(),
		c.Objects.validate(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	if s.RequestTimeout < 0 {
		errs = append(errs, errors.New("server.request_timeout must not be negative"))
	}
	if s.RequestTimeout > 0 && s.WriteTimeout <= s.RequestTimeout {
		errs = append(errs, fmt.Errorf("server.write_timeout (%s) must exceed server.request_timeout (%s) so a timed-out request can still be answered",
			s.WriteTimeout, s.RequestTimeout))
	}
	if s.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("server.max_body_bytes must not be negative"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate() error {
	var errs []error

	if cl.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url must not be empty"))
	}
	if cl.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("client.retry.max_attempts must be >= 1, got %d", cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("client.retry.multiplier must be positive, got %f", cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("client.circuit_breaker.max_failures must be >= 1, got %d",
			cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("client.rate_limit.requests_per_second must not be negative"))
	}
	if cl.RateLimit.RequestsPerSecond > 0 && cl.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("client.rate_limit.burst_size must be >= 1 when rate limiting, got %d",
			cl.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (l *LLMConfig) validate() error {
	var errs []error

	switch l.Provider {
	case ProviderNone:
		return nil
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider must be one of: none, openai, gemini; got %q", l.Provider)
	}

	if l.Model == "" {
		errs = append(errs, fmt.Errorf("llm.model must not be empty for provider %s", l.Provider))
	}
	if l.Provider == ProviderGemini && l.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key must not be empty for provider gemini"))
	}
	if l.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (w *WorkflowConfig) validate() error {
	var errs []error

	if w.TransactionType == "" {
		errs = append(errs, errors.New("workflow.transaction_type must not be empty"))
	}
	if w.LoopGuardThreshold < 1 {
		errs = append(errs, fmt.Errorf("workflow.loop_guard_threshold must be >= 1, got %d", w.LoopGuardThreshold))
	}
	if w.HistoryTurns < 0 {
		errs = append(errs, fmt.Errorf("workflow.history_turns must not be negative, got %d", w.HistoryTurns))
	}
	if w.TurnTimeout < 0 {
		errs = append(errs, errors.New("workflow.turn_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

func (e *ExtractionConfig) validate() error {
	var errs []error

	if e.SchemaVersion < 1 {
		errs = append(errs, fmt.Errorf("extraction.schema_version must be >= 1, got %d", e.SchemaVersion))
	}
	if e.MinDistinctIdentifiers < 0 {
		errs = append(errs, fmt.Errorf("extraction.min_distinct_identifiers must not be negative, got %d",
			e.MinDistinctIdentifiers))
	}
	if e.MinDetailCoverage < 0 || e.MinDetailCoverage > 1 {
		errs = append(errs, fmt.Errorf("extraction.min_detail_coverage must be between 0 and 1, got %g",
			e.MinDetailCoverage))
	}
	if e.MinTextLength < 0 {
		errs = append(errs, fmt.Errorf("extraction.min_text_length must not be negative, got %d", e.MinTextLength))
	}
	if e.Timeout <= 0 {
		errs = append(errs, errors.New("extraction.timeout must be positive"))
	}
	if e.MaxConcurrentDocuments < 1 {
		errs = append(errs, fmt.Errorf("extraction.max_concurrent_documents must be >= 1, got %d",
			e.MaxConcurrentDocuments))
	}
	if e.MaxDocumentBytes < 1 {
		errs = append(errs, fmt.Errorf("extraction.max_document_bytes must be >= 1, got %d", e.MaxDocumentBytes))
	}

	return errors.Join(errs...)
}

func (c *CacheConfig) validate() error {
	var errs []error

	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("cache.redis.url must not be empty when backend is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be one of: memory, redis; got %q", c.Backend))
	}
	if c.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}

	return errors.Join(errs...)
}

func (s *StoreConfig) validate() error {
	switch s.Backend {
	case BackendMemory:
		return nil
	case BackendPostgres:
		if s.DSN == "" {
			return errors.New("store.dsn must not be empty when backend is postgres")
		}
		return nil
	default:
		return fmt.Errorf("store.backend must be one of: memory, postgres; got %q", s.Backend)
	}
}

func (o *ObjectsConfig) validate() error {
	var errs []error

	if o.BaseURL == "" {
		errs = append(errs, errors.New("objects.base_url must not be empty"))
	}
	if o.URLTTL <= 0 {
		errs = append(errs, errors.New("objects.url_ttl must be positive"))
	}

	return errors.Join(errs...)
}
