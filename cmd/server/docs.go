// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package main provides the Concentus HTTP server
//
// Concentus API builds taste profiles from Apple Music listening
// history and matches listeners by cosine similarity of profile
// embeddings.
//
// @title Concentus API
// @version 1.0
// @description Taste profiles and listener matching for Apple Music libraries
// @description
// @description ## Features
// @description
// @description - **Apple Music Sync**: Pulls recently played tracks via the MusicKit API
// @description - **Taste Profiles**: Distills listening history into a genre/artist profile text
// @description - **Vector Embeddings**: OpenAI-compatible embeddings with a deterministic local fallback
// @description - **Listener Matching**: Cosine similarity ranking and pairwise profile comparison
// @description - **Real-time Updates**: WebSocket notifications when profiles change
// @description - **Background Resync**: Periodic refresh of every registered user's profile
// @description
// @description ## Authentication
// @description
// @description Most endpoints require a session token in the `X-Session-Token` header.
// @description Use `/api/v1/auth/login` with a MusicKit Music User Token to obtain one.
// @description Admin-tagged endpoints additionally require the caller to be listed in `ADMIN_USERS`.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description The `/api/v1/sync` endpoint also enforces a per-user cooldown between syncs.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-24T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/concentus/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:4440
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey SessionAuth
// @in header
// @name X-Session-Token
// @description Opaque session token. Obtain via /api/v1/auth/login with a MusicKit Music User Token.
//
// @tag.name Core
// @tag.description Health checks, readiness probes, and the WebSocket upgrade endpoint
//
// @tag.name Auth
// @tag.description Login with a Music User Token, logout, and developer token retrieval
//
// @tag.name Profile
// @tag.description Taste profile sync and retrieval endpoints
//
// @tag.name Similarity
// @tag.description Similar-listener ranking and pairwise profile comparison
//
// @tag.name Users
// @tag.description User registry management (admin operations and display name updates)
package main
