// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/concentus/internal/metrics"
)

// Session-related errors
var (
	// ErrSessionNotFound is returned when a session is not found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when trying to access an expired session.
	ErrSessionExpired = errors.New("session expired")
)

// Session represents an authenticated user session.
//
// UserToken is the Apple Music user token captured at login; the sync handler
// reads it to call Apple on the caller's behalf. The Badger store seals it
// with the configured TokenEncryptor before persisting.
type Session struct {
	// ID is the opaque session identifier handed to the client (UUID v4).
	ID string `json:"id"`

	// UserID is the derived Apple Music user identifier.
	UserID string `json:"userId"`

	// DisplayName is the user's display name at login time.
	DisplayName string `json:"displayName"`

	// Storefront is the user's Apple Music storefront.
	Storefront string `json:"storefront"`

	// Role is the role granted at login.
	Role string `json:"role"`

	// UserToken is the Apple Music user token (sensitive).
	UserToken string `json:"userToken,omitempty"`

	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt is when the session expires.
	ExpiresAt time.Time `json:"expiresAt"`

	// LastAccessedAt is when the session was last accessed.
	LastAccessedAt time.Time `json:"lastAccessedAt"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Subject converts the session to a Subject for use in request contexts.
func (s *Session) Subject() *Subject {
	return &Subject{
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		Storefront:  s.Storefront,
		Role:        s.Role,
		SessionID:   s.ID,
	}
}

// NewSession creates a session for the subject with the given lifetime.
func NewSession(subject *Subject, userToken string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             generateSessionID(),
		UserID:         subject.UserID,
		DisplayName:    subject.DisplayName,
		Storefront:     subject.Storefront,
		Role:           subject.Role,
		UserToken:      userToken,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}
}

// generateSessionID returns a new opaque session identifier.
func generateSessionID() string {
	return uuid.NewString()
}

// SessionStore defines the interface for session storage backends.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if not found.
	// Returns ErrSessionExpired if the session exists but is expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Update updates an existing session.
	// Returns ErrSessionNotFound if not found.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by ID.
	// Does not return error if session doesn't exist.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes all sessions for a user.
	// Returns the count of deleted sessions.
	DeleteByUserID(ctx context.Context, userID string) (int, error)

	// GetByUserID returns all unexpired sessions for a user.
	GetByUserID(ctx context.Context, userID string) ([]*Session, error)

	// Touch updates the session's last accessed time and extends expiry.
	Touch(ctx context.Context, id string, newExpiry time.Time) error

	// CleanupExpired removes all expired sessions.
	// Returns the count of deleted sessions.
	CleanupExpired(ctx context.Context) (int, error)

	// Count returns the number of stored sessions, expired ones included.
	Count(ctx context.Context) (int, error)
}

// MemorySessionStore is an in-memory implementation of SessionStore.
// Suitable for tests; production uses BadgerSessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create stores a new session.
func (s *MemorySessionStore) Create(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so later caller mutations don't leak into the store. Session has
	// no reference-typed fields, so a value copy is a deep copy.
	stored := *session
	s.sessions[session.ID] = &stored

	metrics.SessionsActive.Inc()
	return nil
}

// Get retrieves a session by ID.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	copied := *session
	return &copied, nil
}

// Update updates an existing session.
func (s *MemorySessionStore) Update(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}

	stored := *session
	s.sessions[session.ID] = &stored
	return nil
}

// Delete removes a session by ID.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		metrics.SessionsActive.Dec()
	}
	return nil
}

// DeleteByUserID removes all sessions for a user.
func (s *MemorySessionStore) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			count++
		}
	}
	if count > 0 {
		metrics.SessionsActive.Sub(float64(count))
	}
	return count, nil
}

// GetByUserID returns all unexpired sessions for a user.
func (s *MemorySessionStore) GetByUserID(ctx context.Context, userID string) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []*Session
	for _, session := range s.sessions {
		if session.UserID == userID && !session.IsExpired() {
			copied := *session
			sessions = append(sessions, &copied)
		}
	}
	return sessions, nil
}

// Touch updates the session's last accessed time and extends expiry.
func (s *MemorySessionStore) Touch(ctx context.Context, id string, newExpiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	session.ExpiresAt = newExpiry
	return nil
}

// CleanupExpired removes all expired sessions.
func (s *MemorySessionStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			count++
		}
	}
	if count > 0 {
		metrics.SessionsActive.Sub(float64(count))
	}
	return count, nil
}

// Count returns the number of stored sessions.
func (s *MemorySessionStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// StartCleanupRoutine starts a goroutine that periodically removes expired
// sessions until the context is canceled.
func StartCleanupRoutine(ctx context.Context, store SessionStore, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := store.CleanupExpired(ctx); err != nil {
					continue
				}
				// Re-sync the gauge after each sweep; inc/dec bookkeeping
				// drifts when deletes race expiry.
				if n, err := store.Count(ctx); err == nil {
					metrics.SessionsActive.Set(float64(n))
				}
			}
		}
	}()
}
