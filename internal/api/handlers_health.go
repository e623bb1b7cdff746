// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/concentus/internal/models"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns comprehensive health status including store connectivity, developer token signing, last re-sync time, and uptime
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	// Check store connectivity (nil means not connected)
	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	// Check developer token signing. Token mints lazily, so this surfaces a
	// missing or unreadable MusicKit key without calling Apple.
	appleTokenValid := false
	if h.tokens != nil {
		_, err := h.tokens.Token()
		appleTokenValid = err == nil
	}

	// Mode names the embedding provider: "openai" or "fallback"
	mode := ""
	if h.config != nil {
		mode = h.config.Embedding.Provider
	}

	status := "healthy"
	if !storeConnected || !appleTokenValid {
		status = "degraded"
	}

	var lastResyncPtr *time.Time
	if h.resync != nil {
		lastResync := h.resync.LastRunTime()
		if !lastResync.IsZero() {
			lastResyncPtr = &lastResync
		}
	}

	health := models.HealthStatus{
		Status:          status,
		Mode:            mode,
		Version:         "1.0.0",
		StoreConnected:  storeConnected,
		AppleTokenValid: appleTokenValid,
		LastResyncTime:  lastResyncPtr,
		Uptime:          time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the service is ready to handle traffic (store open and developer token signing working). Returns 503 if not ready.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	storeConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	appleTokenValid := false
	if h.tokens != nil {
		_, err := h.tokens.Token()
		appleTokenValid = err == nil
	}

	ready := storeConnected && appleTokenValid

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"store_connected":   storeConnected,
			"apple_token_valid": appleTokenValid,
			"ready_to_serve":    ready,
			"uptime":            time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
