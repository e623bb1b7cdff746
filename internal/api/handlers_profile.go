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

	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/models"
	"github.com/tomtom215/concentus/internal/profile"
)

// Profile handles taste profile reads for the authenticated caller
//
// @Summary Get the caller's taste profile
// @Description Returns the stored taste profile text and when it was built. The embedding vector is internal and never returned.
// @Tags Profile
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.APIResponse{data=models.ProfileView} "Taste profile"
// @Failure 404 {object} models.APIResponse "No profile stored; sync first"
// @Failure 500 {object} models.APIResponse "Profile lookup failed"
// @Router /api/v1/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	h.respondProfile(w, r, subject.UserID)
}

// ProfileByID handles admin taste profile reads for any user
//
// @Summary Get a user's taste profile
// @Description Returns the stored taste profile text for the given user. Admin only.
// @Tags Profile
// @Produce json
// @Security SessionAuth
// @Param userID path string true "Derived Apple Music user ID"
// @Success 200 {object} models.APIResponse{data=models.ProfileView} "Taste profile"
// @Failure 403 {object} models.APIResponse "Admin role required"
// @Failure 404 {object} models.APIResponse "No profile stored for this user"
// @Failure 500 {object} models.APIResponse "Profile lookup failed"
// @Router /api/v1/profile/{userID} [get]
func (h *Handler) ProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "User ID is required", nil)
		return
	}

	h.respondProfile(w, r, userID)
}

// respondProfile loads one user's profile document and writes the view.
func (h *Handler) respondProfile(w http.ResponseWriter, r *http.Request, userID string) {
	start := time.Now()
	doc, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found. Sync your listening history first.", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load profile", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.ProfileView{
			UserID:         userID,
			Text:           doc.ProfileText(),
			Timestamp:      doc.Timestamp,
			CollectionName: docstore.UserPartition(userID),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// ProfilesAll handles admin listing of every stored taste profile
//
// @Summary List all taste profiles
// @Description Returns a summary of every registered user's stored profile: embedding presence, dimensions, and build time. Users who never synced are omitted. Admin only.
// @Tags Profile
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.APIResponse{data=models.ProfilesListing} "Profile summaries"
// @Failure 403 {object} models.APIResponse "Admin role required"
// @Failure 500 {object} models.APIResponse "Registry or profile lookup failed"
// @Router /api/v1/profiles [get]
func (h *Handler) ProfilesAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	registered, err := h.registry.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to list users", err)
		return
	}

	summaries := []models.ProfileSummary{}
	for _, user := range registered {
		doc, err := h.profiles.Get(r.Context(), user.AppleMusicUserID)
		if errors.Is(err, profile.ErrNotFound) {
			continue
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load profiles", err)
			return
		}

		ts := doc.Timestamp
		summaries = append(summaries, models.ProfileSummary{
			UserID:              user.AppleMusicUserID,
			DisplayName:         user.DisplayName,
			HasEmbedding:        doc.HasEmbedding(),
			EmbeddingDimensions: len(doc.Embedding),
			Timestamp:           &ts,
			CollectionName:      docstore.UserPartition(user.AppleMusicUserID),
		})
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.ProfilesListing{
			Profiles:   summaries,
			TotalUsers: len(registered),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
