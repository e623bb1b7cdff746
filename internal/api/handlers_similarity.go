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
	"github.com/tomtom215/concentus/internal/models"
	"github.com/tomtom215/concentus/internal/similarity"
)

// Similar handles similar-user queries
//
// @Summary Find listeners with similar taste
// @Description Ranks every other synced user by cosine similarity against the caller's profile embedding, highest first. The limit parameter caps how many entries are returned; out-of-range values are clamped.
// @Tags Similarity
// @Produce json
// @Security SessionAuth
// @Param limit query int false "Maximum entries to return" default(10)
// @Success 200 {object} models.APIResponse{data=models.SimilarUsersResult} "Ranked similar users"
// @Failure 404 {object} models.APIResponse "Caller has no profile embedding"
// @Failure 500 {object} models.APIResponse "Similarity scan failed"
// @Router /api/v1/similar [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	limit := getIntParam(r, "limit", h.config.API.DefaultSimilarLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > h.config.API.MaxSimilarLimit {
		limit = h.config.API.MaxSimilarLimit
	}

	start := time.Now()
	result, fromCache := h.similar.CachedResult(subject.UserID)
	if !fromCache {
		var err error
		result, err = h.similar.FindSimilar(r.Context(), subject.UserID)
		if err != nil {
			if errors.Is(err, similarity.ErrNoProfile) {
				respondError(w, http.StatusNotFound, "NO_PROFILE",
					"No profile found. Sync your listening history first.", nil)
				return
			}
			respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Similarity query failed", err)
			return
		}
	}

	// The engine caches and returns the full ranking; truncate a shallow
	// copy so the cached result stays intact.
	limited := *result
	if limit < len(limited.SimilarUsers) {
		limited.SimilarUsers = limited.SimilarUsers[:limit]
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   limited,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      fromCache,
		},
	})
}

// Compare handles pairwise taste comparison
//
// @Summary Compare the caller with another user
// @Description Reports the cosine similarity between two profiles as a percent, plus the genres, artists, songs, and albums both have in common.
// @Tags Similarity
// @Produce json
// @Security SessionAuth
// @Param otherUserID path string true "Derived Apple Music user ID to compare against"
// @Success 200 {object} models.APIResponse{data=models.Comparison} "Pairwise comparison"
// @Failure 400 {object} models.APIResponse "Missing user ID"
// @Failure 404 {object} models.APIResponse "One or both users have no profile embedding"
// @Failure 500 {object} models.APIResponse "Comparison failed"
// @Router /api/v1/compare/{otherUserID} [get]
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	subject := auth.GetSubject(r.Context())
	if subject == nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required", nil)
		return
	}

	otherUserID := chi.URLParam(r, "otherUserID")
	if otherUserID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "User ID is required", nil)
		return
	}

	start := time.Now()
	comparison, err := h.similar.CompareUsers(r.Context(), subject.UserID, otherUserID)
	if err != nil {
		if errors.Is(err, similarity.ErrMissingProfile) {
			respondError(w, http.StatusNotFound, "NO_PROFILE",
				"One or both users have no profile. Both must sync their listening history first.", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Comparison failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   comparison,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
