// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package auth implements session-based authentication for Concentus.
//
// There are no passwords. A client authenticates by posting its Apple Music
// user token to the login endpoint; the service derives a stable user ID from
// the token, records the user in the registry, and hands back an opaque
// session ID. Subsequent requests present that session ID as a bearer token
// (or via the X-Session-Token header) and the session middleware resolves it
// to a Subject in the request context.
//
// Sessions live in BadgerDB next to the profile store and expire on a sliding
// TTL. The Apple Music user token travels inside the session and the registry
// so the sync pipeline can call Apple on the user's behalf; when an encryption
// key is configured both copies are sealed with AES-256-GCM before they touch
// disk (see TokenEncryptor).
package auth
