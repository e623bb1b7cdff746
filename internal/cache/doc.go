// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package cache provides a thread-safe in-memory TTL cache with
// per-cache Prometheus instrumentation.
//
// Two caches exist in the application:
//
//   - "similarity": caches FindSimilar results keyed by user and limit,
//     invalidated whenever a profile sync completes. TTL comes from
//     cache.similarity_ttl (default 5m).
//   - "devtoken": holds the current Apple Music developer token until
//     one hour before its JWT expiry, so a restart is the only reason
//     to re-sign early.
//
// The cache name becomes the cache_type label on the cache_hits_total,
// cache_misses_total, cache_entries and cache_evictions_total metrics,
// so each cache's behavior is observable on its own.
//
// Keys for parameterized lookups should be built with GenerateKey,
// which hashes the JSON form of the parameters:
//
//	key := cache.GenerateKey("similar", struct {
//	    UserID string
//	    Limit  int
//	}{userID, limit})
//
// Expired entries are removed lazily on access and by a background
// sweep every five minutes. Entries have no size bound; both caches
// hold small result sets where count is bounded by the user registry.
package cache
