// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
	"github.com/tomtom215/concentus/internal/models"
)

// SessionHeader is the fallback header for clients that cannot set an
// Authorization header (browser EventSource, some websocket clients).
const SessionHeader = "X-Session-Token"

// SessionMiddleware resolves session tokens to subjects. Mount Authenticate
// on the API group, then RequireAuth or RequireRole on protected subtrees.
type SessionMiddleware struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionMiddleware creates the session middleware. Sessions slide: each
// authenticated request pushes expiry out by the TTL.
func NewSessionMiddleware(store SessionStore, ttl time.Duration) *SessionMiddleware {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionMiddleware{store: store, ttl: ttl}
}

// Authenticate resolves the request's session token to a Subject in the
// context. Requests without a token, or with a token that does not resolve,
// continue unauthenticated; RequireAuth decides whether that is acceptable.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := extractSessionID(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.store.Get(r.Context(), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, ErrSessionExpired):
				metrics.RecordSessionValidation("expired")
			case errors.Is(err, ErrSessionNotFound):
				metrics.RecordSessionValidation("invalid")
			default:
				metrics.RecordSessionValidation("invalid")
				logging.Error().Err(err).Msg("Session lookup failed")
			}
			next.ServeHTTP(w, r)
			return
		}

		metrics.RecordSessionValidation("valid")

		newExpiry := time.Now().Add(m.ttl)
		if touchErr := m.store.Touch(r.Context(), sessionID, newExpiry); touchErr != nil {
			logging.Warn().Err(touchErr).Msg("Failed to touch session")
		}

		ctx := ContextWithSubject(r.Context(), session.Subject())
		ctx = ContextWithSession(ctx, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects unauthenticated requests with a 401 envelope.
// Must run after Authenticate.
func (m *SessionMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSubject(r.Context()) == nil {
			metrics.RecordSessionValidation("missing")
			respondAuthError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that rejects subjects without the role:
// 401 when unauthenticated, 403 when authenticated but lacking the role.
// Admins pass every role check. Must run after Authenticate.
func (m *SessionMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetSubject(r.Context())
			if subject == nil {
				metrics.RecordSessionValidation("missing")
				respondAuthError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
				return
			}

			if !subject.HasRole(role) {
				respondAuthError(w, http.StatusForbidden, "AUTHORIZATION_ERROR", "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractSessionID pulls the session token from the request.
// Priority: Authorization bearer > X-Session-Token header.
func extractSessionID(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return r.Header.Get(SessionHeader)
}

// respondAuthError writes the standard error envelope. The api package has a
// richer version; the middleware keeps its own so auth does not import api.
func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
