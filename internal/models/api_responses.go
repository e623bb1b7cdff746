// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"userId": "user_abc123", "topGenres": ["Pop", "Rock"]},
//	  "metadata": {"timestamp": "2026-08-24T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NO_RECENT_TRACKS",
//	    "message": "No recent tracks found"
//	  },
//	  "metadata": {"timestamp": "2026-08-24T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Handler execution time in milliseconds (0 if cached)
//   - Cached: Whether response was served from cache (omitted if false)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - AUTHENTICATION_ERROR: Missing/expired session or rejected upstream credential
//   - AUTHORIZATION_ERROR: Insufficient permissions
//   - NOT_FOUND: Resource doesn't exist
//   - NO_RECENT_TRACKS: Upstream listening history is empty
//   - NO_PROFILE: Similarity query against a user without a stored profile
//   - SYNC_ERROR: Profile sync pipeline failure
//   - STORAGE_ERROR: Backing store failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// LoginResponse is the login endpoint payload: the session token the client
// presents on later requests plus the registry entry it resolved to.
type LoginResponse struct {
	SessionID      string     `json:"sessionId"`
	ExpiresAt      time.Time  `json:"expiresAt"`
	User           PublicUser `json:"user"`
	IsNewUser      bool       `json:"isNewUser"`
	CollectionName string     `json:"collectionName"`
}

// ProfileView is the profile read payload. The embedding is deliberately
// omitted; clients only render the text.
type ProfileView struct {
	UserID         string    `json:"userId"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	CollectionName string    `json:"collectionName"`
}

// UsersListing wraps the registry list endpoint payload.
type UsersListing struct {
	Users []PublicUser `json:"users"`
	Total int          `json:"total"`
}

// ProfilesListing wraps the all-profiles endpoint payload.
type ProfilesListing struct {
	Profiles   []ProfileSummary `json:"profiles"`
	TotalUsers int              `json:"totalUsers"`
}

// DisplayNameUpdate is the payload confirming a display name change.
type DisplayNameUpdate struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status          string     `json:"status"`
	Mode            string     `json:"mode"`
	Version         string     `json:"version"`
	StoreConnected  bool       `json:"store_connected"`
	AppleTokenValid bool       `json:"apple_token_valid"`
	LastResyncTime  *time.Time `json:"last_resync_time"`
	Uptime          float64    `json:"uptime"`
}
