package config

import (
	"errors"
	"strings"
)

const (
	defaultServerPort   = 8080
	defaultMaxBodyBytes = 64 << 20

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultLoopGuardThreshold = 3
	defaultHistoryTurns       = 6

	defaultSchemaVersion          = 1
	defaultMinDistinctIdentifiers = 2
	defaultMinDetailCoverage      = 0.8
	defaultMinTextLength          = 200
	defaultMaxConcurrentDocuments = 4
	defaultMaxDocumentBytes       = 20 << 20

	defaultRedisPoolSize = 10
	defaultMaxOpenConns  = 10
	defaultMaxIdleConns  = 5
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":            "0.0.0.0",
		"server.port":            defaultServerPort,
		"server.read_timeout":    "5s",
		"server.write_timeout":   "120s",
		"server.idle_timeout":    "120s",
		"server.request_timeout": "90s",
		"server.max_body_bytes":  defaultMaxBodyBytes,

		"log.level":  "info",
		"log.format": "json",

		"client.base_url":                        "https://api.openai.com",
		"client.timeout":                         "60s",
		"client.retry.max_attempts":              defaultRetryMaxAttempts,
		"client.retry.initial_interval":          "500ms",
		"client.retry.max_interval":              "10s",
		"client.retry.multiplier":                defaultRetryMultiplier,
		"client.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"client.circuit_breaker.timeout":         "30s",
		"client.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"client.rate_limit.requests_per_second":  0,
		"client.rate_limit.burst_size":           1,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "preaviso",

		"llm.provider":     ProviderNone,
		"llm.model":        "",
		"llm.vision_model": "",
		"llm.api_key":      "",
		"llm.timeout":      "30s",

		"workflow.transaction_type":     "property_transfer",
		"workflow.loop_guard_threshold": defaultLoopGuardThreshold,
		"workflow.history_turns":        defaultHistoryTurns,
		"workflow.turn_timeout":         "45s",

		"extraction.schema_version":           defaultSchemaVersion,
		"extraction.min_distinct_identifiers": defaultMinDistinctIdentifiers,
		"extraction.min_detail_coverage":      defaultMinDetailCoverage,
		"extraction.min_text_length":          defaultMinTextLength,
		"extraction.timeout":                  "60s",
		"extraction.max_concurrent_documents": defaultMaxConcurrentDocuments,
		"extraction.max_document_bytes":       defaultMaxDocumentBytes,

		"cache.backend":              BackendMemory,
		"cache.ttl":                  "720h",
		"cache.redis.url":            "",
		"cache.redis.pool_size":      defaultRedisPoolSize,
		"cache.redis.min_idle_conns": 0,
		"cache.redis.dial_timeout":   "5s",
		"cache.redis.read_timeout":   "3s",
		"cache.redis.write_timeout":  "3s",

		"store.backend":           BackendMemory,
		"store.dsn":               "",
		"store.max_open_conns":    defaultMaxOpenConns,
		"store.max_idle_conns":    defaultMaxIdleConns,
		"store.conn_max_lifetime": "30m",

		"objects.base_url":    "http://localhost:8080",
		"objects.url_ttl":     "15m",
		"objects.signing_key": "",
	}
}

// defaultsProvider exposes defaults() as a koanf provider. Keys are
// dotted, so they are expanded into nested maps before loading.
type defaultsProvider struct{}

func (defaultsProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("defaults provider does not support ReadBytes")
}

func (defaultsProvider) Read() (map[string]any, error) {
	out := make(map[string]any)
	for key, value := range defaults() {
		parts := strings.Split(key, ".")
		node := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return out, nil
}
