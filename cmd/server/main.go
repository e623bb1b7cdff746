// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package main is the entry point for the Concentus server application.
//
// Concentus is a self-hosted taste-profile service for Apple Music
// listeners. Users log in with a MusicKit Music User Token, the server
// syncs their recently played tracks, distills them into a taste profile,
// embeds the profile as a vector, and matches listeners by cosine
// similarity.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Document store: Open BadgerDB for profiles, users, and sessions
//  3. Authentication: Session store, token encryption, and Casbin RBAC
//  4. Apple Music client: ES256 developer tokens with circuit breaker
//  5. Embedding provider: OpenAI-compatible API or deterministic fallback
//  6. Similarity engine: Cosine matching over stored profile vectors
//  7. Event bus: Watermill pub/sub wiring resync events to WebSocket clients
//  8. Resync manager: Periodic background refresh of all user profiles
//  9. HTTP Server: REST API with Swagger documentation and WebSocket endpoint
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Required Apple Music (MusicKit) credentials:
//   - APPLE_TEAM_ID: Apple Developer team identifier
//   - APPLE_KEY_ID: MusicKit private key identifier
//   - APPLE_PRIVATE_KEY or APPLE_PRIVATE_KEY_PATH: ES256 private key (PEM)
//
// Optional embedding provider (defaults to the deterministic local provider):
//   - EMBEDDING_PROVIDER=openai
//   - OPENAI_API_KEY: API key for the OpenAI-compatible endpoint
//   - OPENAI_BASE_URL: Override for self-hosted compatible servers
//
// Recommended for production:
//   - TOKEN_ENCRYPTION_KEY: 64 hex chars; encrypts Music User Tokens at rest
//   - ADMIN_USERS: Comma-separated user IDs granted the admin role
//   - CORS_ORIGINS: Allowed origins for browser clients
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Stops the resync manager, waiting for any in-flight resync pass
//   - Closes the event bus and document store
//
// # Example Usage
//
// Development with the deterministic embedding provider:
//
//	export APPLE_TEAM_ID=ABCDE12345
//	export APPLE_KEY_ID=XYZ9876543
//	export APPLE_PRIVATE_KEY_PATH=./AuthKey_XYZ9876543.p8
//	export STORE_IN_MEMORY=true
//	./concentus
//
// Production with OpenAI embeddings and encrypted tokens:
//
//	export APPLE_TEAM_ID=ABCDE12345
//	export APPLE_KEY_ID=XYZ9876543
//	export APPLE_PRIVATE_KEY_PATH=/secrets/AuthKey_XYZ9876543.p8
//	export EMBEDDING_PROVIDER=openai
//	export OPENAI_API_KEY=sk-...
//	export TOKEN_ENCRYPTION_KEY=$(openssl rand -hex 32)
//	export STORE_PATH=/data/concentus
//	./concentus
//
// Docker:
//
//	docker run -d \
//	  -e APPLE_TEAM_ID=ABCDE12345 \
//	  -e APPLE_KEY_ID=XYZ9876543 \
//	  -e APPLE_PRIVATE_KEY="$(cat AuthKey.p8)" \
//	  -v concentus-data:/data \
//	  -p 4440:4440 \
//	  ghcr.io/tomtom215/concentus
//
// # Port 4440
//
// The default port 4440 references A440, the 440 Hz concert pitch standard
// used to tune musical instruments.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/concentus/docs" // Import generated swagger docs
	"github.com/tomtom215/concentus/internal/api"
	"github.com/tomtom215/concentus/internal/applemusic"
	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/authz"
	"github.com/tomtom215/concentus/internal/cache"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/embedding"
	"github.com/tomtom215/concentus/internal/events"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/profile"
	"github.com/tomtom215/concentus/internal/similarity"
	"github.com/tomtom215/concentus/internal/supervisor"
	"github.com/tomtom215/concentus/internal/supervisor/services"
	"github.com/tomtom215/concentus/internal/syncer"
	"github.com/tomtom215/concentus/internal/users"
	ws "github.com/tomtom215/concentus/internal/websocket"
)

// badgerGCInterval is how often the value-log garbage collector runs.
// Badger recommends periodic GC for long-running processes with
// persistent stores; the call is a no-op for in-memory stores.
const badgerGCInterval = 10 * time.Minute

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Concentus with supervisor tree")

	logging.Info().
		Str("storefront", cfg.Apple.Storefront).
		Str("store_path", cfg.Store.Path).
		Bool("store_in_memory", cfg.Store.InMemory).
		Str("embedding_provider", cfg.Embedding.Provider).
		Msg("Configuration loaded")

	// Open the document store for profiles, users, and sessions
	store, err := docstore.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()
	logging.Info().Msg("Document store opened successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Badger value-log GC runs on its own ticker, scoped to the shutdown
	// context rather than the supervisor tree
	store.StartGC(ctx, badgerGCInterval)

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Music User Token encryption at rest (optional but recommended)
	crypt, err := auth.NewTokenEncryptor(cfg.Security.TokenEncryptionKey)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token encryption")
	}
	if crypt == nil {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: TOKEN_ENCRYPTION_KEY is not set")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Music User Tokens will be stored UNENCRYPTED at rest.")
		logging.Warn().Msg("  Anyone with access to the data directory can read them.")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  RECOMMENDED: Generate a key for production:")
		logging.Warn().Msg("    TOKEN_ENCRYPTION_KEY=$(openssl rand -hex 32)")
		logging.Warn().Msg("============================================================")
	} else {
		logging.Info().Msg("Music User Token encryption enabled (AES-256-GCM)")
	}

	// User registry and session store share the document store
	registry := users.NewRegistry(store, crypt)
	sessions := auth.NewBadgerSessionStore(store.DB(), crypt)
	authService := auth.NewService(sessions, registry, cfg.Security, cfg.Apple.Storefront)

	if len(cfg.Security.AdminUsers) > 0 {
		logging.Info().Int("count", len(cfg.Security.AdminUsers)).Msg("Admin users configured")
	} else {
		logging.Info().Msg("No admin users configured (ADMIN_USERS empty) - admin endpoints inaccessible")
	}

	// Casbin RBAC enforcer with the embedded model and policy
	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization enforcer")
	}
	logging.Info().Msg("Authorization enforcer initialized (Casbin RBAC)")

	// Apple Music developer token source (ES256, cached until near expiry)
	tokens := applemusic.NewTokenSource(cfg.Apple)
	if _, err := tokens.Token(); err != nil {
		logging.Warn().Err(err).Msg("Failed to mint Apple Music developer token (will retry per request)")
	} else {
		logging.Info().
			Str("team_id", cfg.Apple.TeamID).
			Str("key_id", cfg.Apple.KeyID).
			Msg("Apple Music developer token minted successfully")
	}

	// Apple Music API client with circuit breaker for fault tolerance and
	// a catalog metadata cache in front of it, so resync passes do not
	// re-fetch the same songs for every user
	apple := applemusic.NewCachingClient(
		applemusic.NewCircuitBreakerClient(applemusic.NewClient(cfg.Apple, tokens)),
		cache.New("catalog_songs", cfg.Cache.CatalogTTL),
	)

	// Embedding provider: OpenAI-compatible API or deterministic fallback
	embedder, err := embedding.NewProvider(cfg.Embedding)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize embedding provider")
	}
	logging.Info().
		Str("provider", cfg.Embedding.Provider).
		Int("dimensions", embedder.Dimensions()).
		Msg("Embedding provider initialized")

	// Profile store and similarity engine with cached query results
	profiles := profile.NewStore(store)
	engine := similarity.NewEngine(profiles, cache.New("similar_users", cfg.Cache.SimilarityTTL))

	// Event bus for profile-updated and resync-completed events
	bus := events.NewBus(cfg.Events)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// WebSocket hub for real-time updates to connected clients
	wsHub := ws.NewHub()

	// Sync pipeline: fetch recent tracks, build profile text, embed, store
	orchestrator := syncer.NewOrchestrator(apple, embedder, profiles, bus, cfg.Sync)
	resyncManager := syncer.NewManager(orchestrator, registry, bus, cfg.Sync)

	// Event router: fan events out to WebSocket clients and invalidate
	// cached similarity results when profiles change
	eventRouter, err := events.NewRouter(bus.Subscriber())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}
	eventRouter.OnProfileUpdated("websocket-profile-broadcast", func(_ context.Context, evt events.ProfileUpdated) error {
		wsHub.BroadcastProfileUpdated(evt)
		return nil
	})
	eventRouter.OnProfileUpdated("similarity-cache-invalidate", func(_ context.Context, _ events.ProfileUpdated) error {
		engine.InvalidateAll()
		return nil
	})
	eventRouter.OnResyncCompleted("websocket-resync-broadcast", func(_ context.Context, evt events.ResyncCompleted) error {
		wsHub.BroadcastResyncCompleted(evt)
		return nil
	})
	logging.Info().Msg("Event router handlers registered")

	handler := api.NewHandler(authService, registry, orchestrator, resyncManager, engine, profiles, store, tokens, cfg, wsHub)

	sessionMW := auth.NewSessionMiddleware(sessions, cfg.Security.SessionTTL)
	authzMW := authz.NewMiddleware(enforcer)
	router := api.NewRouter(handler, sessionMW, authzMW, cfg)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used for CI/CD testing!")
	}

	// Warn about wildcard CORS: sessions ride an X-Session-Token header,
	// so a wildcard origin lets any website drive an authenticated session
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("============================================================")
			logging.Warn().Msg("  SECURITY WARNING: CORS is configured with wildcard origin (CORS_ORIGINS=*)")
			logging.Warn().Msg("  ")
			logging.Warn().Msg("  This allows ANY website to make cross-origin requests to your API.")
			logging.Warn().Msg("  ")
			logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
			logging.Warn().Msg("    CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
			logging.Warn().Msg("============================================================")
			break
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	tree.AddDataService(services.NewResyncService(resyncManager))
	logging.Info().
		Bool("resync_on_start", cfg.Sync.ResyncOnStart).
		Dur("interval", cfg.Sync.ResyncInterval).
		Msg("Resync manager added to supervisor tree")

	// Messaging layer services
	tree.AddMessagingService(services.NewEventRouterService(eventRouter))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	logging.Info().Msg("Event router and WebSocket hub added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
