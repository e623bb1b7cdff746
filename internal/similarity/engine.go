// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package similarity ranks users by taste overlap. It compares stored
// profile embeddings with cosine similarity, brute-force across every
// user partition; at the scale of a household or friend group that is
// exact, dependency-free, and fast enough to run on every request.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/concentus/internal/cache"
	"github.com/tomtom215/concentus/internal/metrics"
	"github.com/tomtom215/concentus/internal/models"
	"github.com/tomtom215/concentus/internal/profile"
)

var (
	// ErrNoProfile reports that the requesting user has no stored
	// profile embedding to compare from.
	ErrNoProfile = errors.New("user has no profile embedding")

	// ErrMissingProfile reports that one or both sides of a pairwise
	// comparison have no stored profile embedding.
	ErrMissingProfile = errors.New("one or both users have no profile")
)

// Engine answers similar-user and pairwise comparison queries over the
// profile store.
type Engine struct {
	profiles *profile.Store
	results  *cache.Cache
}

// NewEngine creates a similarity engine over the given profile store.
// The cache holds full FindSimilar results keyed by user and may be
// nil to disable caching.
func NewEngine(profiles *profile.Store, results *cache.Cache) *Engine {
	return &Engine{
		profiles: profiles,
		results:  results,
	}
}

// FindSimilar ranks every other user with a comparable embedding
// against the given user, highest similarity first.
//
// Candidate IDs are derived from partition names by stripping the
// leading user prefix once; the requesting user is skipped whether its
// ID arrives with or without that prefix. Candidates without a stored
// profile, or with an empty embedding, are skipped silently: a user
// that cannot be compared is not an error, it is just not a result.
// Ties keep enumeration order.
func (e *Engine) FindSimilar(ctx context.Context, userID string) (*models.SimilarUsersResult, error) {
	key := cache.GenerateKey("similar_users", userID)
	if e.results != nil {
		if cached, ok := e.results.Get(key); ok {
			if result, ok := cached.(*models.SimilarUsersResult); ok {
				return result, nil
			}
		}
	}

	start := time.Now()

	current, err := e.profiles.GetWithEmbedding(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("finding similar users for %s: %w", userID, ErrNoProfile)
		}
		return nil, fmt.Errorf("loading profile for %s: %w", userID, err)
	}

	partitions, err := e.profiles.ListUserPartitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing candidate users: %w", err)
	}

	// The requester's ID may carry the partition prefix already, so
	// both the prefixed and stripped forms identify self.
	currentStripped := strings.ReplaceAll(userID, "user_", "")

	similar := []models.SimilarUser{}
	for _, partition := range partitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidateID := strings.Replace(partition, "user_", "", 1)
		if candidateID == currentStripped || candidateID == userID {
			continue
		}

		candidate, err := e.profiles.GetWithEmbedding(ctx, candidateID)
		if err != nil {
			continue
		}

		sim := Cosine(current.Embedding, candidate.Embedding)
		text := candidate.ProfileText()
		details := profile.Extract(text)
		ts := candidate.Timestamp

		similar = append(similar, models.SimilarUser{
			UserID:            candidateID,
			Similarity:        sim,
			SimilarityPercent: Percent(sim),
			ProfileText:       text,
			Genres:            details.Genres,
			Artists:           details.Artists,
			Songs:             details.Songs,
			Albums:            details.Albums,
			Timestamp:         &ts,
		})
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})

	result := &models.SimilarUsersResult{
		CurrentUser:        userID,
		SimilarUsers:       similar,
		TotalUsersCompared: len(similar),
	}

	metrics.RecordSimilarityQuery(time.Since(start), len(similar))

	if e.results != nil {
		e.results.Set(key, result)
	}
	return result, nil
}

// CachedResult returns the cached FindSimilar outcome for a user, if one is
// held. The API layer uses it to flag responses served from cache.
func (e *Engine) CachedResult(userID string) (*models.SimilarUsersResult, bool) {
	if e.results == nil {
		return nil, false
	}
	cached, ok := e.results.Get(cache.GenerateKey("similar_users", userID))
	if !ok {
		return nil, false
	}
	result, ok := cached.(*models.SimilarUsersResult)
	return result, ok
}

// CompareUsers reports the overall similarity and per-category common
// interests between two users. The similarity is formatted as a percent
// string with two decimals, and common interests preserve the first
// user's ordering with case-insensitive matching.
func (e *Engine) CompareUsers(ctx context.Context, userID1, userID2 string) (*models.Comparison, error) {
	profile1, err := e.profiles.GetWithEmbedding(ctx, userID1)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("comparing %s with %s: %w", userID1, userID2, ErrMissingProfile)
		}
		return nil, fmt.Errorf("loading profile for %s: %w", userID1, err)
	}

	profile2, err := e.profiles.GetWithEmbedding(ctx, userID2)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("comparing %s with %s: %w", userID1, userID2, ErrMissingProfile)
		}
		return nil, fmt.Errorf("loading profile for %s: %w", userID2, err)
	}

	details1 := profile.Extract(profile1.ProfileText())
	details2 := profile.Extract(profile2.ProfileText())

	sim := Cosine(profile1.Embedding, profile2.Embedding)

	return &models.Comparison{
		UserID1:    userID1,
		UserID2:    userID2,
		Similarity: fmt.Sprintf("%.2f", sim*100),
		CommonInterests: models.Interests{
			Genres:  intersect(details1.Genres, details2.Genres),
			Artists: intersect(details1.Artists, details2.Artists),
			Songs:   intersect(details1.Songs, details2.Songs),
			Albums:  intersect(details1.Albums, details2.Albums),
		},
		User1Details: details1,
		User2Details: details2,
	}, nil
}

// InvalidateAll drops every cached similarity result. One changed
// embedding can reorder every user's ranking, so profile updates clear
// the whole cache rather than chasing individual keys.
func (e *Engine) InvalidateAll() {
	if e.results != nil {
		e.results.Clear()
	}
}

// intersect returns the entries of a that also appear in b, compared
// case-insensitively, preserving a's order and casing.
func intersect(a, b []string) []string {
	lookup := make(map[string]struct{}, len(b))
	for _, v := range b {
		lookup[strings.ToLower(v)] = struct{}{}
	}

	common := []string{}
	for _, v := range a {
		if _, ok := lookup[strings.ToLower(v)]; ok {
			common = append(common, v)
		}
	}
	return common
}
