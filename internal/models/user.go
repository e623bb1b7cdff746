// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package models

import (
	"time"
)

// User is one registry entry: a listener known to the service. UserToken is
// the Apple Music user token, stored encrypted at rest when an encryption key
// is configured; it never leaves the server.
type User struct {
	AppleMusicUserID string    `json:"appleMusicUserId"`
	DisplayName      string    `json:"displayName"`
	Storefront       string    `json:"storefront"`
	UserToken        string    `json:"userToken,omitempty"`
	Role             string    `json:"role,omitempty"`
	LastLogin        time.Time `json:"lastLogin"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PublicUser is the registry entry with sensitive fields projected away,
// suitable for list endpoints.
type PublicUser struct {
	AppleMusicUserID string     `json:"appleMusicUserId"`
	DisplayName      string     `json:"displayName"`
	Storefront       string     `json:"storefront"`
	LastLogin        *time.Time `json:"lastLogin"`
	CreatedAt        *time.Time `json:"createdAt"`
	HasToken         bool       `json:"hasToken"`
}

// Public converts a registry entry to its projection.
func (u *User) Public() PublicUser {
	pub := PublicUser{
		AppleMusicUserID: u.AppleMusicUserID,
		DisplayName:      u.DisplayName,
		Storefront:       u.Storefront,
		HasToken:         u.UserToken != "",
	}
	if !u.LastLogin.IsZero() {
		t := u.LastLogin
		pub.LastLogin = &t
	}
	if !u.CreatedAt.IsZero() {
		t := u.CreatedAt
		pub.CreatedAt = &t
	}
	return pub
}

// UpdateDisplayNameRequest is the payload for changing the caller's display name.
type UpdateDisplayNameRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=64"`
}

// UserDetails combines a registry projection with profile presence info.
type UserDetails struct {
	User       PublicUser      `json:"user"`
	HasProfile bool            `json:"hasProfile"`
	Profile    *ProfilePresent `json:"profile"`
}

// ProfilePresent is the profile stub attached to user detail responses.
type ProfilePresent struct {
	Timestamp    *time.Time `json:"timestamp"`
	HasEmbedding bool       `json:"hasEmbedding"`
}
