// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables and config files.
// Provides centralized configuration management for all application components including
// the Apple Music integration, embedding providers, the profile store, synchronization,
// server, API, security, and logging.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Integrations:
//     - Apple: MusicKit credentials and Apple Music API client tuning
//     - Embedding: Learned embedding provider (OpenAI-compatible) or deterministic fallback
//
//  2. Infrastructure:
//     - Store: Badger profile store configuration (path, in-memory mode)
//     - Sync: Profile sync pipeline and background re-sync settings
//     - Server: HTTP server configuration (port, host, timeout)
//     - Events: In-process event bus settings
//
//  3. API & Security:
//     - API: Similar-user query limits
//     - Security: Sessions, token encryption, rate limiting, CORS
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Apple.TeamID, cfg.Store.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Apple     AppleConfig     `koanf:"apple"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Store     StoreConfig     `koanf:"store"`
	Sync      SyncConfig      `koanf:"sync"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Events    EventsConfig    `koanf:"events"`
	Cache     CacheConfig     `koanf:"cache"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// AppleConfig holds MusicKit credentials and Apple Music API client settings.
//
// Developer tokens are minted locally as ES256 JWTs signed with the MusicKit
// private key (.p8). Either PrivateKey (PEM content, "\n" escapes allowed) or
// PrivateKeyPath must be set.
//
// Environment Variables:
//   - APPLE_TEAM_ID: Apple Developer Team ID (required)
//   - APPLE_KEY_ID: MusicKit key ID (required)
//   - APPLE_PRIVATE_KEY: MusicKit private key PEM content
//   - APPLE_PRIVATE_KEY_PATH: Path to the MusicKit .p8 key file
//   - APPLE_API_BASE_URL: Apple Music API base URL (default: https://api.music.apple.com/v1)
//   - APPLE_STOREFRONT: Catalog storefront used when a user has none (default: us)
//   - APPLE_TIMEOUT: HTTP client timeout (default: 15s)
//   - APPLE_RATE_LIMIT: Requests per second to Apple (default: 10)
//   - APPLE_RATE_BURST: Burst allowance (default: 20)
//   - APPLE_TOKEN_TTL: Developer token lifetime (default: 4320h, Apple's 180-day maximum)
type AppleConfig struct {
	TeamID         string        `koanf:"team_id"`
	KeyID          string        `koanf:"key_id"`
	PrivateKey     string        `koanf:"private_key"`
	PrivateKeyPath string        `koanf:"private_key_path"`
	APIBaseURL     string        `koanf:"api_base_url"`
	Storefront     string        `koanf:"storefront"`
	Timeout        time.Duration `koanf:"timeout"`
	RateLimit      float64       `koanf:"rate_limit"`
	RateBurst      int           `koanf:"rate_burst"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
}

// EmbeddingConfig selects and tunes the embedding provider used for profile
// vectors.
//
// Provider "openai" calls an OpenAI-compatible embeddings endpoint and falls
// back to the deterministic provider on failure. Provider "fallback" uses the
// deterministic 128-dimension feature embedder exclusively and needs no
// credentials or network access.
//
// Environment Variables:
//   - EMBEDDING_PROVIDER: "openai" or "fallback" (default: fallback)
//   - OPENAI_API_KEY: API key for the embeddings endpoint
//   - OPENAI_BASE_URL: Override endpoint (for self-hosted compatible servers)
//   - OPENAI_EMBEDDING_MODEL: Model name (default: text-embedding-3-small)
//   - EMBEDDING_DIMENSIONS: Requested vector dimensions (default: 384)
//   - EMBEDDING_TIMEOUT: Request timeout (default: 30s)
type EmbeddingConfig struct {
	Provider      string        `koanf:"provider"`
	OpenAIAPIKey  string        `koanf:"openai_api_key"`
	OpenAIBaseURL string        `koanf:"openai_base_url"`
	OpenAIModel   string        `koanf:"openai_model"`
	Dimensions    int           `koanf:"dimensions"`
	Timeout       time.Duration `koanf:"timeout"`
}

// StoreConfig holds Badger profile store settings.
//
// Environment Variables:
//   - STORE_PATH: Badger data directory (default: /data/concentus)
//   - STORE_IN_MEMORY: Run Badger fully in memory, for tests and ephemeral
//     deployments (default: false)
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SyncConfig holds profile sync pipeline settings.
//
// Environment Variables:
//   - SYNC_RECENT_LIMIT: Recently-played tracks fetched per sync (default: 30)
//   - SYNC_ON_START: Re-sync all registered users with stored tokens at startup (default: true)
//   - SYNC_INTERVAL: Periodic re-sync interval, 0 disables (default: 0)
//   - SYNC_STAGGER_DELAY: Delay between users during bulk re-sync (default: 2s)
type SyncConfig struct {
	RecentLimit    int           `koanf:"recent_limit"`
	ResyncOnStart  bool          `koanf:"resync_on_start"`
	ResyncInterval time.Duration `koanf:"resync_interval"`
	StaggerDelay   time.Duration `koanf:"stagger_delay"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT / PORT: Listen port (default: 4440)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: "development", "production", or "test" (default: development)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds request shaping limits for query endpoints.
//
// Environment Variables:
//   - API_DEFAULT_SIMILAR_LIMIT: Default similar-user result count (default: 10)
//   - API_MAX_SIMILAR_LIMIT: Maximum similar-user result count (default: 50)
type APIConfig struct {
	DefaultSimilarLimit int `koanf:"default_similar_limit"`
	MaxSimilarLimit     int `koanf:"max_similar_limit"`
}

// SecurityConfig holds session, encryption, rate limiting, and CORS settings.
//
// TokenEncryptionKey is a 64-character hex string (32 bytes). When set, Apple
// Music user tokens are encrypted at rest with AES-256-GCM; when empty they
// are stored as-is. Generate one with `openssl rand -hex 32`.
//
// Environment Variables:
//   - SESSION_TTL: Session lifetime (default: 24h)
//   - TOKEN_ENCRYPTION_KEY: Hex key for user token encryption (optional)
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Disable rate limiting entirely (default: false)
//   - CORS_ORIGINS: Comma-separated list of allowed origins (default: *)
//   - ADMIN_USERS: Comma-separated user IDs granted the admin role
type SecurityConfig struct {
	SessionTTL         time.Duration `koanf:"session_ttl"`
	TokenEncryptionKey string        `koanf:"token_encryption_key"`
	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled  bool          `koanf:"rate_limit_disabled"`
	CORSOrigins        []string      `koanf:"cors_origins"`
	AdminUsers         []string      `koanf:"admin_users"`
}

// EventsConfig holds in-process event bus settings.
//
// Environment Variables:
//   - EVENTS_BUFFER_SIZE: Per-subscriber channel buffer (default: 64)
type EventsConfig struct {
	BufferSize int `koanf:"buffer_size"`
}

// CacheConfig holds TTL cache settings.
//
// Environment Variables:
//   - SIMILARITY_CACHE_TTL: Similar-user result cache lifetime, 0 disables (default: 5m)
//   - CATALOG_CACHE_TTL: Catalog song metadata cache lifetime, 0 disables (default: 10m)
type CacheConfig struct {
	SimilarityTTL time.Duration `koanf:"similarity_ttl"`
	CatalogTTL    time.Duration `koanf:"catalog_ttl"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
