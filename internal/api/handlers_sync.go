// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/concentus/internal/applemusic"
	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/models"
	"github.com/tomtom215/concentus/internal/syncer"
)

// TriggerSync handles profile sync requests
//
// @Summary Sync the caller's taste profile
// @Description Fetches recent tracks from Apple Music, rebuilds the taste profile text, embeds it, and stores the result. Runs synchronously; the response carries the sync outcome.
// @Tags Profile
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.APIResponse{data=models.SyncResult} "Profile synced"
// @Failure 401 {object} models.APIResponse "Apple Music rejected the stored user token"
// @Failure 404 {object} models.APIResponse "No recent tracks to build a profile from"
// @Failure 500 {object} models.APIResponse "Sync pipeline failure"
// @Router /api/v1/sync [post]
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r.Context())
	if session == nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	start := time.Now()
	result, err := h.syncer.Sync(r.Context(), session.UserID, session.UserToken, session.Storefront)
	if err != nil {
		h.respondSyncError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondSyncError maps sync pipeline failures to API error responses.
// A rejected user token means the stored Music User Token went stale, which
// only a fresh login fixes.
func (h *Handler) respondSyncError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, syncer.ErrNoRecentTracks):
		respondError(w, http.StatusNotFound, "NO_RECENT_TRACKS",
			"No recent tracks found. Listen to some music on Apple Music first.", err)
	case errors.Is(err, applemusic.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR",
			"Token expired or invalid. Please log in again.", err)
	default:
		respondError(w, http.StatusInternalServerError, "SYNC_ERROR", "Sync failed", err)
	}
}

// SyncStatus handles sync status requests
//
// @Summary Get the caller's sync status
// @Description Reports whether a taste profile exists for the caller and when it was last rebuilt. Never 404s; an unsynced user gets is_synced=false.
// @Tags Profile
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.APIResponse{data=models.SyncStatus} "Sync status"
// @Failure 500 {object} models.APIResponse "Status lookup failed"
// @Router /api/v1/sync/status [get]
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	status, err := h.syncer.Status(r.Context(), subject.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to read sync status", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
