// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package profile turns listening history into stored taste profiles.
//
// Three collaborators live here:
//
//   - BuildText renders the canonical profile text from a track sequence
//     and derives the top genres. The text format is load-bearing: the
//     fallback embedder and the structured extractor both key off its
//     "Song: ..., Artist: ..., Genre: ...." sections, and stored texts
//     from earlier deployments must keep parsing identically.
//   - Extract recovers structured genres, artists, songs and albums from
//     a profile text, first-seen ordered and de-duplicated.
//   - Store persists one profile document per user in that user's
//     docstore partition, using the legacy document layout ("_id",
//     "pageContent", the metadata blob block) so existing data remains
//     readable and writable in place.
//
// Profile writes are full replaces. A second sync overwrites the first
// document entirely, including the embedding, so a deployment that
// switches embedding providers converges as users re-sync.
package profile
