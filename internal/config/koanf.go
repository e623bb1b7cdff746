// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/concentus/config.yaml",
	"/etc/concentus/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Apple: AppleConfig{
			TeamID:         "",
			KeyID:          "",
			PrivateKey:     "",
			PrivateKeyPath: "",
			APIBaseURL:     "https://api.music.apple.com/v1",
			Storefront:     "us",
			Timeout:        15 * time.Second,
			RateLimit:      10,
			RateBurst:      20,
			TokenTTL:       180 * 24 * time.Hour, // Apple caps developer tokens at 180 days
		},
		Embedding: EmbeddingConfig{
			Provider:      "fallback", // No credentials needed by default
			OpenAIAPIKey:  "",
			OpenAIBaseURL: "",
			OpenAIModel:   "text-embedding-3-small",
			Dimensions:    384,
			Timeout:       30 * time.Second,
		},
		Store: StoreConfig{
			Path:     "/data/concentus",
			InMemory: false,
		},
		Sync: SyncConfig{
			RecentLimit:    30,
			ResyncOnStart:  true,
			ResyncInterval: 0, // Disabled; startup sweep only
			StaggerDelay:   2 * time.Second,
		},
		Server: ServerConfig{
			Port:        4440,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development", // Set ENVIRONMENT=production for production checks
		},
		API: APIConfig{
			DefaultSimilarLimit: 10,
			MaxSimilarLimit:     50,
		},
		Security: SecurityConfig{
			SessionTTL:         24 * time.Hour,
			TokenEncryptionKey: "",
			RateLimitReqs:      100,
			RateLimitWindow:    1 * time.Minute,
			RateLimitDisabled:  false,
			CORSOrigins:        []string{"*"},
			AdminUsers:         []string{},
		},
		Events: EventsConfig{
			BufferSize: 64,
		},
		Cache: CacheConfig{
			SimilarityTTL: 5 * time.Minute,
			CatalogTTL:    10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// APPLE_TEAM_ID -> apple.team_id
	// SYNC_RECENT_LIMIT -> sync.recent_limit
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.admin_users",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Only explicitly mapped variables are honored so that unrelated environment
// variables cannot pollute the configuration.
//
// Examples:
//   - APPLE_TEAM_ID -> apple.team_id
//   - OPENAI_API_KEY -> embedding.openai_api_key
//   - HTTP_PORT -> server.port
//   - SESSION_TTL -> security.session_ttl
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Apple MusicKit mappings
		"apple_team_id":          "apple.team_id",
		"apple_key_id":           "apple.key_id",
		"apple_private_key":      "apple.private_key",
		"apple_private_key_path": "apple.private_key_path",
		"apple_api_base_url":     "apple.api_base_url",
		"apple_storefront":       "apple.storefront",
		"apple_timeout":          "apple.timeout",
		"apple_rate_limit":       "apple.rate_limit",
		"apple_rate_burst":       "apple.rate_burst",
		"apple_token_ttl":        "apple.token_ttl",

		// Embedding provider mappings
		"embedding_provider":     "embedding.provider",
		"openai_api_key":         "embedding.openai_api_key",
		"openai_base_url":        "embedding.openai_base_url",
		"openai_embedding_model": "embedding.openai_model",
		"embedding_dimensions":   "embedding.dimensions",
		"embedding_timeout":      "embedding.timeout",

		// Store mappings
		"store_path":      "store.path",
		"store_in_memory": "store.in_memory",

		// Sync mappings
		"sync_recent_limit":  "sync.recent_limit",
		"sync_on_start":      "sync.resync_on_start",
		"sync_interval":      "sync.resync_interval",
		"sync_stagger_delay": "sync.stagger_delay",

		// Server mappings
		"port":         "server.port",
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// API mappings
		"api_default_similar_limit": "api.default_similar_limit",
		"api_max_similar_limit":     "api.max_similar_limit",

		// Security mappings
		"session_ttl":          "security.session_ttl",
		"token_encryption_key": "security.token_encryption_key",
		"rate_limit_requests":  "security.rate_limit_reqs",
		"rate_limit_window":    "security.rate_limit_window",
		"disable_rate_limit":   "security.rate_limit_disabled",
		"cors_origins":         "security.cors_origins",
		"admin_users":          "security.admin_users",

		// Events mappings
		"events_buffer_size": "events.buffer_size",

		// Cache mappings
		"similarity_cache_ttl": "cache.similarity_ttl",
		"catalog_cache_ttl":    "cache.catalog_ttl",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
