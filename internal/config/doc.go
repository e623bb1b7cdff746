// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

/*
Package config provides centralized configuration management using Koanf v2.

Configuration is loaded from three layered sources with clear precedence:

	Environment Variables > Config File (YAML) > Built-in Defaults

# Quick Start

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := docstore.Open(cfg.Store)
	server := &http.Server{Addr: cfg.Server.Addr()}

# Config File

An optional YAML file is searched at config.yaml, config.yml,
/etc/concentus/config.yaml, and /etc/concentus/config.yml, or at the path
given by CONFIG_PATH:

	apple:
	  team_id: "ABCDE12345"
	  key_id: "XYZ9876543"
	  private_key_path: "/secrets/AuthKey_XYZ9876543.p8"

	embedding:
	  provider: "openai"
	  openai_api_key: "sk-..."

	server:
	  port: 4440

	security:
	  session_ttl: 24h
	  cors_origins:
	    - "https://listen.example.com"

# Environment Variables

Only explicitly mapped variables are honored (see envTransformFunc). The
most important ones:

	APPLE_TEAM_ID            Apple Developer Team ID (required)
	APPLE_KEY_ID             MusicKit key ID (required)
	APPLE_PRIVATE_KEY        MusicKit .p8 PEM content ("\n" escapes allowed)
	APPLE_PRIVATE_KEY_PATH   Path to the .p8 file (alternative to the above)
	EMBEDDING_PROVIDER       "openai" or "fallback" (default: fallback)
	OPENAI_API_KEY           Required when EMBEDDING_PROVIDER=openai
	STORE_PATH               Badger data directory (default: /data/concentus)
	PORT / HTTP_PORT         Listen port (default: 4440)
	SESSION_TTL              Session lifetime (default: 24h)
	TOKEN_ENCRYPTION_KEY     Hex-encoded 32-byte key for user token encryption
	ADMIN_USERS              Comma-separated user IDs granted the admin role
	LOG_LEVEL / LOG_FORMAT   Logging configuration

# Validation

Load() validates the merged configuration and fails fast on:
  - Missing MusicKit credentials (unless STORE_IN_MEMORY=true for tests)
  - Out-of-range ports, limits, or TTLs
  - Malformed TOKEN_ENCRYPTION_KEY (must decode to 32 bytes)
  - Wildcard CORS origins in production

# Thread Safety

Config is immutable after Load() and safe for concurrent reads.
*/
package config
