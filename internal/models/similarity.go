// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package models

import (
	"time"
)

// Interests is the structured view extracted from a profile text: one
// de-duplicated, first-seen-ordered list per category.
type Interests struct {
	Genres  []string `json:"genres"`
	Artists []string `json:"artists"`
	Songs   []string `json:"songs"`
	Albums  []string `json:"albums"`
}

// SimilarUser is one ranked entry of a similar-users query. The JSON field
// names match the legacy response shape consumed by existing clients.
type SimilarUser struct {
	UserID            string     `json:"userId"`
	Similarity        float64    `json:"similarity"`
	SimilarityPercent float64    `json:"similarityPercent"`
	ProfileText       string     `json:"profileText"`
	Genres            []string   `json:"genres"`
	Artists           []string   `json:"artists"`
	Songs             []string   `json:"songs"`
	Albums            []string   `json:"albums"`
	Timestamp         *time.Time `json:"timestamp"`
}

// SimilarUsersResult is the full outcome of a ranked similar-users scan.
type SimilarUsersResult struct {
	CurrentUser        string        `json:"currentUser"`
	SimilarUsers       []SimilarUser `json:"similarUsers"`
	TotalUsersCompared int           `json:"totalUsersCompared"`
}

// Comparison reports pairwise common interests between two users.
// Similarity is a percent formatted with two decimals ("87.34"), preserving
// the legacy string shape.
type Comparison struct {
	UserID1         string    `json:"userId1"`
	UserID2         string    `json:"userId2"`
	Similarity      string    `json:"similarity"`
	CommonInterests Interests `json:"commonInterests"`
	User1Details    Interests `json:"user1Details"`
	User2Details    Interests `json:"user2Details"`
}
