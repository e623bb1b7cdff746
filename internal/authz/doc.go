// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package authz enforces route-level authorization with Casbin RBAC.
//
// Two roles exist: "user" (every authenticated listener) and "admin", which
// inherits the user role via a grouping rule. The model and policy ship
// embedded in the binary; file paths can override both for deployments that
// need custom rules, with optional auto-reload.
//
// The middleware takes the authenticated subject from the request context,
// maps the HTTP method to an action (read/write/delete), and enforces against
// the request path. Policy objects use keyMatch2 patterns, so path parameters
// like /api/v1/compare/:otherUserID match without per-user policy rows.
package authz
