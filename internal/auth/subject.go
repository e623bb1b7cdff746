// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package auth

import (
	"context"
	"errors"
)

// Roles assigned to authenticated subjects. Every user gets RoleUser; IDs
// listed in ADMIN_USERS additionally get RoleAdmin at login.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Standard authentication errors
var (
	// ErrNoCredentials indicates no session token was provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates the presented session token was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Subject represents an authenticated user resolved from a session.
type Subject struct {
	// UserID is the derived Apple Music user identifier ("user_..." form).
	UserID string `json:"userId"`

	// DisplayName is the user's chosen or generated display name.
	DisplayName string `json:"displayName"`

	// Storefront is the Apple Music catalog storefront for this user.
	Storefront string `json:"storefront"`

	// Role is the subject's role for authorization.
	Role string `json:"role"`

	// SessionID is the session this subject was resolved from.
	SessionID string `json:"sessionId,omitempty"`
}

// IsAdmin reports whether the subject carries the admin role.
func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// HasRole checks if the subject has the given role. Admins pass every check.
func (s *Subject) HasRole(role string) bool {
	if s == nil || role == "" {
		return false
	}
	return s.Role == role || s.Role == RoleAdmin
}

type contextKey string

const (
	subjectContextKey contextKey = "auth_subject"
	sessionContextKey contextKey = "auth_session"
)

// ContextWithSubject returns a context carrying the authenticated subject.
func ContextWithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// GetSubject retrieves the authenticated subject from the request context.
// Returns nil when the request is unauthenticated.
func GetSubject(ctx context.Context) *Subject {
	subject, ok := ctx.Value(subjectContextKey).(*Subject)
	if !ok {
		return nil
	}
	return subject
}

// ContextWithSession returns a context carrying the resolved session.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// GetSession retrieves the resolved session from the request context.
// Handlers that need the caller's Apple Music user token read it from here;
// unauthenticated requests return nil.
func GetSession(ctx context.Context) *Session {
	session, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return session
}
