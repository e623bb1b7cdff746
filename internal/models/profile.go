// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package models

import (
	"time"
)

// ProfileDocument is the stored per-user listening profile. The field layout
// (including "_id", "pageContent" and the metadata block) matches the document
// shape earlier deployments wrote, so existing partitions remain readable.
//
// Invariants:
//   - at most one document per user, id "profile_{userID}"
//   - writes are full-document replaces, never merges
type ProfileDocument struct {
	ID          string       `json:"_id"`
	Text        string       `json:"text"`
	Embedding   []float64    `json:"embedding"`
	Metadata    DocumentMeta `json:"metadata"`
	PageContent string       `json:"pageContent"`
	Timestamp   time.Time    `json:"timestamp"`
}

// DocumentMeta mirrors the vector-store metadata block of the legacy document
// shape. Source and BlobType are constants for profile documents.
type DocumentMeta struct {
	Source   string      `json:"source"`
	BlobType string      `json:"blobType"`
	Loc      DocumentLoc `json:"loc"`
}

// DocumentLoc locates the document content within its source blob.
type DocumentLoc struct {
	Lines LineRange `json:"lines"`
}

// LineRange is a 1-based inclusive line span.
type LineRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ProfileText returns the profile text, falling back to PageContent when the
// primary field is empty (some legacy writers populated only one of the two).
func (d *ProfileDocument) ProfileText() string {
	if d.Text != "" {
		return d.Text
	}
	return d.PageContent
}

// HasEmbedding reports whether the document carries a non-empty vector.
func (d *ProfileDocument) HasEmbedding() bool {
	return d != nil && len(d.Embedding) > 0
}

// Profile is the read-side view of a stored profile keyed by the external
// user identifier.
type Profile struct {
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncStatus summarizes whether and when a user's profile was last written.
type SyncStatus struct {
	IsSynced       bool       `json:"is_synced"`
	UserID         string     `json:"user_id"`
	LastUpdate     *time.Time `json:"last_update"`
	HasProfileText bool       `json:"has_profile_text"`
}

// SyncResult reports the outcome of one profile sync pipeline run.
type SyncResult struct {
	UserID         string   `json:"userId"`
	TopGenres      []string `json:"topGenres"`
	SongsProcessed int      `json:"songsProcessed"`
	EmbeddingDim   int      `json:"embeddingDim"`
	ProfileText    string   `json:"-"`
	CollectionName string   `json:"collectionName,omitempty"`
}

// ProfileSummary is the per-user entry of the all-profiles listing.
type ProfileSummary struct {
	UserID              string     `json:"userId"`
	DisplayName         string     `json:"displayName"`
	HasEmbedding        bool       `json:"hasEmbedding"`
	EmbeddingDimensions int        `json:"embeddingDimensions"`
	Timestamp           *time.Time `json:"timestamp"`
	CollectionName      string     `json:"collectionName"`
}
