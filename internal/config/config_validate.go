// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateApple(); err != nil {
		return err
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validateSync(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateApple validates MusicKit credentials and client tuning.
// The whole service depends on developer tokens, so credentials are required
// unless the store runs in memory (tests, local experiments without Apple).
func (c *Config) validateApple() error {
	if c.Store.InMemory && c.Apple.TeamID == "" && c.Apple.KeyID == "" {
		return nil // Credential-free mode for tests and local experiments
	}

	if err := c.validateAppleCredentials(); err != nil {
		return err
	}
	return c.validateAppleLimits()
}

// validateAppleCredentials validates team ID, key ID, and private key presence
func (c *Config) validateAppleCredentials() error {
	if c.Apple.TeamID == "" {
		return fmt.Errorf("APPLE_TEAM_ID is required")
	}
	if c.Apple.KeyID == "" {
		return fmt.Errorf("APPLE_KEY_ID is required")
	}
	if c.Apple.PrivateKey == "" && c.Apple.PrivateKeyPath == "" {
		return fmt.Errorf("one of APPLE_PRIVATE_KEY or APPLE_PRIVATE_KEY_PATH is required")
	}
	return nil
}

// Apple client limit constants
const (
	appleMaxTokenTTL = 180 * 24 * time.Hour // Apple rejects tokens valid longer than 180 days
	appleMinTimeout  = time.Second
	appleMaxTimeout  = 5 * time.Minute
)

// validateAppleLimits validates Apple client tuning values
func (c *Config) validateAppleLimits() error {
	if c.Apple.Timeout < appleMinTimeout || c.Apple.Timeout > appleMaxTimeout {
		return fmt.Errorf("APPLE_TIMEOUT must be between %v and %v", appleMinTimeout, appleMaxTimeout)
	}
	if c.Apple.TokenTTL <= 0 || c.Apple.TokenTTL > appleMaxTokenTTL {
		return fmt.Errorf("APPLE_TOKEN_TTL must be between 1ns and 4320h (180 days)")
	}
	if c.Apple.RateLimit <= 0 {
		return fmt.Errorf("APPLE_RATE_LIMIT must be positive")
	}
	if c.Apple.RateBurst < 1 {
		return fmt.Errorf("APPLE_RATE_BURST must be at least 1")
	}
	return nil
}

// validEmbeddingProviders defines the allowed embedding providers
var validEmbeddingProviders = map[string]bool{
	"openai":   true,
	"fallback": true,
}

// validateEmbedding validates embedding provider configuration
func (c *Config) validateEmbedding() error {
	if !validEmbeddingProviders[c.Embedding.Provider] {
		return fmt.Errorf("EMBEDDING_PROVIDER must be one of: openai, fallback")
	}

	if c.Embedding.Provider == "openai" && c.Embedding.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when EMBEDDING_PROVIDER=openai")
	}

	if c.Embedding.Dimensions < 1 || c.Embedding.Dimensions > 4096 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must be between 1 and 4096")
	}

	return nil
}

// validateSync validates sync pipeline configuration
func (c *Config) validateSync() error {
	if c.Sync.RecentLimit < 1 || c.Sync.RecentLimit > 100 {
		return fmt.Errorf("SYNC_RECENT_LIMIT must be between 1 and 100")
	}
	if c.Sync.ResyncInterval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must be non-negative (0 disables periodic re-sync)")
	}
	if c.Sync.StaggerDelay < 0 {
		return fmt.Errorf("SYNC_STAGGER_DELAY must be non-negative")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// validateAPI validates API limit configuration
func (c *Config) validateAPI() error {
	if c.API.MaxSimilarLimit < 1 || c.API.MaxSimilarLimit > 1000 {
		return fmt.Errorf("API_MAX_SIMILAR_LIMIT must be between 1 and 1000")
	}
	if c.API.DefaultSimilarLimit < 1 || c.API.DefaultSimilarLimit > c.API.MaxSimilarLimit {
		return fmt.Errorf("API_DEFAULT_SIMILAR_LIMIT must be between 1 and API_MAX_SIMILAR_LIMIT")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.Security.SessionTTL < time.Minute {
		return fmt.Errorf("SESSION_TTL must be at least 1m")
	}

	if err := c.validateTokenEncryptionKey(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validateTokenEncryptionKey validates the optional token encryption key.
// When set it must decode to exactly 32 bytes (AES-256).
func (c *Config) validateTokenEncryptionKey() error {
	key := c.Security.TokenEncryptionKey
	if key == "" {
		return nil // Encryption disabled; tokens stored in plaintext
	}

	decoded, err := hex.DecodeString(key)
	if err != nil {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be a hex string: %w", err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(decoded))
	}
	return nil
}

// validateCORS validates CORS configuration for security best practices.
// In production, wildcard CORS is rejected because session tokens would be
// exposed to any origin.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
// Ensures rate limit values are within sensible ranges to prevent
// misconfiguration that could lead to DoS or ineffective protection.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}
