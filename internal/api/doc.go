// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

/*
Package api provides the HTTP REST API layer for Concentus.

It exposes the full service surface: login and session management, profile
sync, taste profile reads, similar-user ranking, pairwise comparison, the
user registry, and a WebSocket feed of profile events.

Key Components:

  - Router: Chi route configuration and the production middleware stack
  - Handler: Request handlers for every endpoint
  - Response formatting: Standardized JSON envelopes with metadata
  - Error handling: Consistent error codes with appropriate HTTP statuses

API Categories:

1. Auth Endpoints (/api/v1/auth/):
  - MusicKit login and logout
  - Developer token minting for MusicKit clients

2. Profile Endpoints (/api/v1/):
  - Profile sync (sync, sync/status)
  - Taste profile reads (profile, profile/{userID}, profiles)
  - Similarity queries (similar, compare/{otherUserID})

3. User Registry Endpoints (/api/v1/users):
  - Registry listing and per-user details (admin)
  - Display name updates and user deletion

4. Operational Endpoints:
  - Health checks (health, health/live, health/ready)
  - Prometheus metrics (/metrics) and Swagger UI (/swagger)

5. WebSocket Endpoint (/api/v1/ws):
  - profile_updated broadcasts after each sync
  - resync_completed broadcasts after bulk re-syncs

Usage Example:

	handler := api.NewHandler(
	    authService, registry, orchestrator, resyncManager,
	    engine, profiles, store, tokenSource, cfg, hub,
	)
	router := api.NewRouter(handler, sessionMW, authzMW, cfg)
	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())

Thread Safety:

All handlers are safe for concurrent requests. Shared resources (store,
caches, WebSocket hub) carry their own synchronization.

See Also:

  - internal/auth: Sessions and login
  - internal/syncer: The profile sync pipeline
  - internal/similarity: Similar-user ranking
  - internal/models: Request/response data structures
*/
package api
