// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/concentus/internal/applemusic"
	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/profile"
	"github.com/tomtom215/concentus/internal/similarity"
	"github.com/tomtom215/concentus/internal/syncer"
	"github.com/tomtom215/concentus/internal/users"
	ws "github.com/tomtom215/concentus/internal/websocket"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_auth.go: Login, logout, developer token
//   - handlers_sync.go: Profile sync trigger and status
//   - handlers_profile.go: Taste profile reads
//   - handlers_similarity.go: Similar users and pairwise comparison
//   - handlers_users.go: User registry management
//   - handlers_health.go: Health and readiness probes
type Handler struct {
	auth      *auth.Service
	registry  *users.Registry
	syncer    *syncer.Orchestrator
	resync    *syncer.Manager
	similar   *similarity.Engine
	profiles  *profile.Store
	store     *docstore.Store
	tokens    *applemusic.TokenSource
	config    *config.Config
	wsHub     *ws.Hub
	startTime time.Time
}

// NewHandler creates a new API handler with all required dependencies.
//
// resync and wsHub may be nil: without a resync manager the health payload
// omits the last re-sync time, and without a hub the WebSocket endpoint
// responds 503.
func NewHandler(
	authService *auth.Service,
	registry *users.Registry,
	orchestrator *syncer.Orchestrator,
	resync *syncer.Manager,
	engine *similarity.Engine,
	profiles *profile.Store,
	store *docstore.Store,
	tokens *applemusic.TokenSource,
	cfg *config.Config,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		auth:      authService,
		registry:  registry,
		syncer:    orchestrator,
		resync:    resync,
		similar:   engine,
		profiles:  profiles,
		store:     store,
		tokens:    tokens,
		config:    cfg,
		wsHub:     wsHub,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates the Origin header against the configured
// CORS origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browser WebSockets always send Origin; an empty header means a
	// non-browser client that already bypassed CORS, so reject it.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// No config means tests or development; allow.
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket handles WebSocket connections
//
// @Summary Establish WebSocket connection
// @Description Establishes a WebSocket connection for real-time profile update and re-sync notifications
// @Tags Core
// @Success 101 {string} string "Switching Protocols"
// @Failure 503 {object} models.APIResponse "WebSocket hub not available"
// @Router /api/v1/ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
