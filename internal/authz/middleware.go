// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package authz

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/models"
)

// Middleware enforces route authorization for authenticated requests.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates authorization middleware around an enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize maps the request method to an action and enforces the caller's
// role against the request path. Runs after session authentication; a request
// without a subject is rejected.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := auth.GetSubject(r.Context())
		if subject == nil {
			respondAuthzError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
			return
		}

		action := methodToAction(r.Method)
		object := r.URL.Path

		start := time.Now()
		allowed, err := m.enforcer.EnforceWithRoles(subject.UserID, []string{subject.Role}, object, action)
		RecordAuthzDecision(subject.Role, object, action, err == nil && allowed, time.Since(start))

		if err != nil {
			logging.Error().Err(err).Str("path", object).Msg("Authorization check failed")
			respondAuthzError(w, http.StatusInternalServerError, "AUTHORIZATION_ERROR", "Authorization check failed")
			return
		}
		if !allowed {
			logging.Warn().
				Str("user_id", subject.UserID).
				Str("role", subject.Role).
				Str("path", object).
				Str("action", action).
				Msg("Request denied")
			respondAuthzError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// respondAuthzError writes the standard error envelope without importing the
// api package.
func respondAuthzError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode authorization error response")
	}
}
