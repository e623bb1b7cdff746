// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/models"
	"github.com/tomtom215/concentus/internal/profile"
	"github.com/tomtom215/concentus/internal/users"
)

// UsersList handles registry listing
//
// @Summary List registered users
// @Description Returns every registry entry with sensitive fields projected away. Admin only.
// @Tags Users
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.APIResponse{data=models.UsersListing} "Registered users"
// @Failure 403 {object} models.APIResponse "Admin role required"
// @Failure 500 {object} models.APIResponse "Registry scan failed"
// @Router /api/v1/users [get]
func (h *Handler) UsersList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	registered, err := h.registry.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to list users", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.UsersListing{
			Users: registered,
			Total: len(registered),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// UserDetails handles per-user registry detail reads
//
// @Summary Get one user's registry entry and profile presence
// @Description Returns the registry projection plus whether a taste profile exists and carries an embedding. Admin only.
// @Tags Users
// @Produce json
// @Security SessionAuth
// @Param userID path string true "Derived Apple Music user ID"
// @Success 200 {object} models.APIResponse{data=models.UserDetails} "User details"
// @Failure 403 {object} models.APIResponse "Admin role required"
// @Failure 404 {object} models.APIResponse "User not registered"
// @Failure 500 {object} models.APIResponse "Lookup failed"
// @Router /api/v1/users/{userID} [get]
func (h *Handler) UserDetails(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "User ID is required", nil)
		return
	}

	user, err := h.registry.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load user", err)
		return
	}

	details := models.UserDetails{User: user.Public()}

	doc, err := h.profiles.Get(r.Context(), userID)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		// No profile yet; HasProfile stays false.
	case err != nil:
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load profile", err)
		return
	default:
		ts := doc.Timestamp
		details.HasProfile = true
		details.Profile = &models.ProfilePresent{
			Timestamp:    &ts,
			HasEmbedding: doc.HasEmbedding(),
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   details,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// UpdateDisplayName handles display name changes for the authenticated caller
//
// @Summary Update the caller's display name
// @Description Changes the display name on the caller's registry entry. The active session keeps its login-time name until the next login.
// @Tags Users
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body models.UpdateDisplayNameRequest true "New display name"
// @Success 200 {object} models.APIResponse{data=models.DisplayNameUpdate} "Display name updated"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 404 {object} models.APIResponse "Registry entry missing"
// @Failure 500 {object} models.APIResponse "Update failed"
// @Router /api/v1/users/me [patch]
func (h *Handler) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	var req models.UpdateDisplayNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", err)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	updated, err := h.registry.UpdateDisplayName(r.Context(), subject.UserID, req.DisplayName)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to update display name", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.DisplayNameUpdate{
			UserID:      updated.AppleMusicUserID,
			DisplayName: updated.DisplayName,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// DeleteUser handles admin user deletion
//
// @Summary Delete a user
// @Description Revokes the user's sessions, removes the registry entry, and drops the profile partition. Admin only. Sessions are revoked before the registry delete so a mid-flight failure stays retryable.
// @Tags Users
// @Produce json
// @Security SessionAuth
// @Param userID path string true "Derived Apple Music user ID"
// @Success 200 {object} models.APIResponse "User deleted"
// @Failure 403 {object} models.APIResponse "Admin role required"
// @Failure 404 {object} models.APIResponse "User not registered"
// @Failure 500 {object} models.APIResponse "Deletion failed"
// @Router /api/v1/users/{userID} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "User ID is required", nil)
		return
	}

	revoked, err := h.auth.RevokeUserSessions(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to revoke user sessions", err)
		return
	}

	if err := h.registry.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to delete user", err)
		return
	}

	// The deleted user may appear in cached rankings.
	h.similar.InvalidateAll()

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"message":         "User deleted",
			"userId":          userID,
			"sessionsRevoked": revoked,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
