// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/models"
)

// DeveloperToken handles developer token requests from MusicKit clients
//
// @Summary Get an Apple Music developer token
// @Description Mints a short-lived ES256 developer token that MusicKit JS presents to Apple during user authorization. Public: clients need it before they can log in.
// @Tags Auth
// @Produce json
// @Success 200 {object} models.APIResponse{data=map[string]string} "Developer token"
// @Failure 500 {object} models.APIResponse "Token generation failed"
// @Router /api/v1/auth/developer-token [get]
func (h *Handler) DeveloperToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Token()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to generate developer token", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"developerToken": token},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Login handles MusicKit login requests
//
// @Summary Log in with an Apple Music user token
// @Description Derives a stable user ID from the Music User Token, creates or refreshes the registry entry, and issues a session token for the X-Session-Token header
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "MusicKit credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Session issued"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 500 {object} models.APIResponse "Login failed"
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.LoginResponse{
			SessionID:      result.SessionID,
			ExpiresAt:      result.ExpiresAt,
			User:           result.User.Public(),
			IsNewUser:      result.IsNewUser,
			CollectionName: docstore.UserPartition(result.User.AppleMusicUserID),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Logout handles logout requests
//
// @Summary Log out
// @Description Deletes the caller's session. Logging out with an unknown or already-expired session still returns success.
// @Tags Auth
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.APIResponse "Logged out"
// @Failure 500 {object} models.APIResponse "Session deletion failed"
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// The auth route group authenticates without requiring a session, so an
	// anonymous logout is a no-op rather than a 401.
	if session := auth.GetSession(r.Context()); session != nil {
		if err := h.auth.Logout(r.Context(), session.ID); err != nil {
			respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete session", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"message": "Logged out"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
