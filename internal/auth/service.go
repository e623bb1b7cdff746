// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
	"github.com/tomtom215/concentus/internal/models"
)

// LoginRequest is the login endpoint body. MusicUserToken is the token
// MusicKit hands the client after user authorization; Concentus never sees
// Apple credentials beyond it.
type LoginRequest struct {
	MusicUserToken string `json:"musicUserToken" validate:"required,min=8"`
	DisplayName    string `json:"displayName,omitempty" validate:"omitempty,max=64"`
	Storefront     string `json:"storefront,omitempty" validate:"omitempty,storefront"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	// SessionID is the opaque token the client presents on later requests.
	SessionID string

	// ExpiresAt is when the session expires (before sliding renewal).
	ExpiresAt time.Time

	// User is the registry entry after the login upsert.
	User *models.User

	// IsNewUser is true when this login created the registry entry.
	IsNewUser bool
}

// UserRegistry is the slice of the user registry the login flow needs.
// Implemented by users.Registry.
type UserRegistry interface {
	// Upsert creates or refreshes a registry entry and returns the stored
	// entry plus whether it was newly created.
	Upsert(ctx context.Context, user *models.User) (*models.User, bool, error)
}

// Service orchestrates login and logout: user ID derivation, registry upsert,
// and session issuance.
type Service struct {
	sessions          SessionStore
	users             UserRegistry
	sessionTTL        time.Duration
	defaultStorefront string
	admins            map[string]bool
}

// NewService creates the auth service. defaultStorefront applies when a login
// request does not name one.
func NewService(sessions SessionStore, users UserRegistry, security config.SecurityConfig, defaultStorefront string) *Service {
	ttl := security.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	admins := make(map[string]bool, len(security.AdminUsers))
	for _, id := range security.AdminUsers {
		admins[id] = true
	}

	return &Service{
		sessions:          sessions,
		users:             users,
		sessionTTL:        ttl,
		defaultStorefront: defaultStorefront,
		admins:            admins,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Login derives the caller's user ID from the Apple Music user token, upserts
// the registry entry, and issues a session. The raw token is handed to the
// registry and the session store, which seal it at rest.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	userID := DeriveUserID(req.MusicUserToken)

	storefront := req.Storefront
	if storefront == "" {
		storefront = s.defaultStorefront
	}

	role := RoleUser
	if s.admins[userID] {
		role = RoleAdmin
	}

	stored, created, err := s.users.Upsert(ctx, &models.User{
		AppleMusicUserID: userID,
		DisplayName:      req.DisplayName,
		Storefront:       storefront,
		UserToken:        req.MusicUserToken,
		Role:             role,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	subject := &Subject{
		UserID:      stored.AppleMusicUserID,
		DisplayName: stored.DisplayName,
		Storefront:  stored.Storefront,
		Role:        role,
	}

	session := NewSession(subject, req.MusicUserToken, s.sessionTTL)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	metrics.SessionsCreated.Inc()
	logging.Info().
		Str("user_id", userID).
		Str("storefront", stored.Storefront).
		Bool("new_user", created).
		Bool("admin", role == RoleAdmin).
		Msg("User logged in")

	return &LoginResult{
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      stored,
		IsNewUser: created,
	}, nil
}

// Logout deletes the session. Deleting an unknown session is not an error;
// logout is idempotent.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrNoCredentials
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	logging.Debug().Str("session_id", sessionID).Msg("Session deleted")
	return nil
}

// RevokeUserSessions deletes every session belonging to a user. Called when
// an admin deletes the user.
func (s *Service) RevokeUserSessions(ctx context.Context, userID string) (int, error) {
	count, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}

	if count > 0 {
		logging.Info().
			Str("user_id", userID).
			Int("sessions", count).
			Msg("User sessions revoked")
	}
	return count, nil
}
