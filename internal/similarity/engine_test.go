// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package similarity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/concentus/internal/cache"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/profile"
)

func newTestEngine(t *testing.T, results *cache.Cache) (*Engine, *profile.Store) {
	t.Helper()

	docs, err := docstore.Open(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open docstore: %v", err)
	}
	t.Cleanup(func() {
		if err := docs.Close(); err != nil {
			t.Errorf("Failed to close docstore: %v", err)
		}
	})

	profiles := profile.NewStore(docs)
	return NewEngine(profiles, results), profiles
}

func TestFindSimilarNoProfile(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	_, err := engine.FindSimilar(context.Background(), "ghost")
	if !errors.Is(err, ErrNoProfile) {
		t.Errorf("Expected ErrNoProfile, got %v", err)
	}
}

func TestFindSimilarEmptyEmbeddingCaller(t *testing.T) {
	engine, profiles := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := profiles.Upsert(ctx, "alice", "Genre: Rock.", nil); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	_, err := engine.FindSimilar(ctx, "alice")
	if !errors.Is(err, ErrNoProfile) {
		t.Errorf("Expected ErrNoProfile for empty embedding, got %v", err)
	}
}

func TestFindSimilarRanking(t *testing.T) {
	engine, profiles := newTestEngine(t, nil)
	ctx := context.Background()

	seed := []struct {
		userID    string
		text      string
		embedding []float64
	}{
		{"alice", "Song: Yesterday, Artist: The Beatles, Album: Help, Genre: Rock.", []float64{1, 0, 0}},
		{"bob", "Song: Let It Be, Artist: The Beatles, Album: Let It Be, Genre: Rock.", []float64{1, 0, 0}},
		{"carol", "Song: One More Time, Artist: Daft Punk, Album: Discovery, Genre: Electronic.", []float64{0, 1, 0}},
	}
	for _, s := range seed {
		if _, err := profiles.Upsert(ctx, s.userID, s.text, s.embedding); err != nil {
			t.Fatalf("Upsert %s failed: %v", s.userID, err)
		}
	}

	result, err := engine.FindSimilar(ctx, "alice")
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}

	if result.CurrentUser != "alice" {
		t.Errorf("Expected currentUser alice, got %s", result.CurrentUser)
	}
	if result.TotalUsersCompared != 2 {
		t.Errorf("Expected 2 users compared, got %d", result.TotalUsersCompared)
	}
	if len(result.SimilarUsers) != 2 {
		t.Fatalf("Expected 2 similar users, got %d", len(result.SimilarUsers))
	}

	if result.SimilarUsers[0].UserID != "bob" {
		t.Errorf("Expected bob ranked first, got %s", result.SimilarUsers[0].UserID)
	}
	if result.SimilarUsers[0].SimilarityPercent != 100.0 {
		t.Errorf("Expected 100%% for identical embedding, got %v", result.SimilarUsers[0].SimilarityPercent)
	}
	if result.SimilarUsers[1].UserID != "carol" {
		t.Errorf("Expected carol ranked second, got %s", result.SimilarUsers[1].UserID)
	}
	if result.SimilarUsers[1].Similarity != 0.0 {
		t.Errorf("Expected 0 similarity for orthogonal embedding, got %v", result.SimilarUsers[1].Similarity)
	}

	first := result.SimilarUsers[0]
	if len(first.Artists) != 1 || first.Artists[0] != "The Beatles" {
		t.Errorf("Expected extracted artist The Beatles, got %v", first.Artists)
	}
	if len(first.Genres) != 1 || first.Genres[0] != "Rock" {
		t.Errorf("Expected extracted genre Rock, got %v", first.Genres)
	}
	if first.Timestamp == nil || first.Timestamp.IsZero() {
		t.Error("Expected candidate timestamp to be set")
	}
}

func TestFindSimilarSkipsSelfWithPrefix(t *testing.T) {
	engine, profiles := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := profiles.Upsert(ctx, "user_dave", "Genre: Jazz.", []float64{1, 1}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	result, err := engine.FindSimilar(ctx, "user_dave")
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.SimilarUsers) != 0 {
		t.Errorf("Expected self to be skipped, got %d results", len(result.SimilarUsers))
	}
}

func TestFindSimilarSkipsMissingEmbeddings(t *testing.T) {
	engine, profiles := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := profiles.Upsert(ctx, "alice", "Genre: Rock.", []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	// Stored profile but no embedding: not comparable, silently skipped.
	if _, err := profiles.Upsert(ctx, "bob", "Genre: Pop.", nil); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := profiles.Upsert(ctx, "carol", "Genre: Jazz.", []float64{0, 1}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	result, err := engine.FindSimilar(ctx, "alice")
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.SimilarUsers) != 1 {
		t.Fatalf("Expected 1 comparable user, got %d", len(result.SimilarUsers))
	}
	if result.SimilarUsers[0].UserID != "carol" {
		t.Errorf("Expected carol, got %s", result.SimilarUsers[0].UserID)
	}
}

func TestFindSimilarStableTies(t *testing.T) {
	engine, profiles := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := profiles.Upsert(ctx, "alice", "Genre: Rock.", []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	// Equal similarity candidates keep partition enumeration order.
	if _, err := profiles.Upsert(ctx, "bob1", "Genre: Rock.", []float64{2, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := profiles.Upsert(ctx, "bob2", "Genre: Rock.", []float64{3, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	result, err := engine.FindSimilar(ctx, "alice")
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.SimilarUsers) != 2 {
		t.Fatalf("Expected 2 similar users, got %d", len(result.SimilarUsers))
	}
	if result.SimilarUsers[0].UserID != "bob1" || result.SimilarUsers[1].UserID != "bob2" {
		t.Errorf("Expected stable order bob1, bob2; got %s, %s",
			result.SimilarUsers[0].UserID, result.SimilarUsers[1].UserID)
	}
}

func TestFindSimilarCaching(t *testing.T) {
	results := cache.New("similarity-test", time.Minute)
	engine, profiles := newTestEngine(t, results)
	ctx := context.Background()

	if _, err := profiles.Upsert(ctx, "alice", "Genre: Rock.", []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := profiles.Upsert(ctx, "bob", "Genre: Rock.", []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	first, err := engine.FindSimilar(ctx, "alice")
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(first.SimilarUsers) != 1 {
		t.Fatalf("Expected 1 similar user, got %d", len(first.SimilarUsers))
	}

	// A new profile is invisible until the cache is invalidated.
	if _, err := profiles.Upsert(ctx, "carol", "Genre: Rock.", []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	cached, err := engine.FindSimilar(ctx, "alice")
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(cached.SimilarUsers) != 1 {
		t.Errorf("Expected cached result with 1 user, got %d", len(cached.SimilarUsers))
	}

	engine.InvalidateAll()

	fresh, err := engine.FindSimilar(ctx, "alice")
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(fresh.SimilarUsers) != 2 {
		t.Errorf("Expected 2 users after invalidation, got %d", len(fresh.SimilarUsers))
	}
}

func TestCompareUsers(t *testing.T) {
	engine, profiles := newTestEngine(t, nil)
	ctx := context.Background()

	text1 := "Song: Yesterday, Artist: The Beatles, Album: Help, Genre: Rock. " +
		"Song: Imagine, Artist: John Lennon, Album: Imagine, Genre: Rock."
	text2 := "Song: Let It Be, Artist: the beatles, Album: Abbey Road, Genre: rock."

	if _, err := profiles.Upsert(ctx, "alice", text1, []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := profiles.Upsert(ctx, "bob", text2, []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	comparison, err := engine.CompareUsers(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CompareUsers failed: %v", err)
	}

	if comparison.UserID1 != "alice" || comparison.UserID2 != "bob" {
		t.Errorf("Unexpected user IDs: %s, %s", comparison.UserID1, comparison.UserID2)
	}
	if comparison.Similarity != "100.00" {
		t.Errorf("Expected similarity 100.00, got %s", comparison.Similarity)
	}

	common := comparison.CommonInterests
	if len(common.Artists) != 1 || common.Artists[0] != "The Beatles" {
		t.Errorf("Expected common artist The Beatles with first user casing, got %v", common.Artists)
	}
	if len(common.Genres) != 1 || common.Genres[0] != "Rock" {
		t.Errorf("Expected common genre Rock, got %v", common.Genres)
	}
	if len(common.Songs) != 0 {
		t.Errorf("Expected no common songs, got %v", common.Songs)
	}
	if len(common.Albums) != 0 {
		t.Errorf("Expected no common albums, got %v", common.Albums)
	}

	if len(comparison.User1Details.Songs) != 2 {
		t.Errorf("Expected 2 songs for user1, got %v", comparison.User1Details.Songs)
	}
	if len(comparison.User2Details.Songs) != 1 {
		t.Errorf("Expected 1 song for user2, got %v", comparison.User2Details.Songs)
	}
}

func TestCompareUsersMissingProfile(t *testing.T) {
	engine, profiles := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := profiles.Upsert(ctx, "alice", "Genre: Rock.", []float64{1, 0}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	tests := []struct {
		name  string
		user1 string
		user2 string
	}{
		{name: "second user missing", user1: "alice", user2: "ghost"},
		{name: "first user missing", user1: "ghost", user2: "alice"},
		{name: "both missing", user1: "ghost1", user2: "ghost2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.CompareUsers(ctx, tt.user1, tt.user2)
			if !errors.Is(err, ErrMissingProfile) {
				t.Errorf("Expected ErrMissingProfile, got %v", err)
			}
		})
	}
}

func BenchmarkFindSimilar(b *testing.B) {
	docs, err := docstore.Open(config.StoreConfig{InMemory: true})
	if err != nil {
		b.Fatalf("Failed to open docstore: %v", err)
	}
	defer docs.Close()

	profiles := profile.NewStore(docs)
	engine := NewEngine(profiles, nil)
	ctx := context.Background()

	embedding := make([]float64, 128)
	for i := range embedding {
		embedding[i] = float64(i%11) * 0.1
	}
	for i := 0; i < 50; i++ {
		userID := fmt.Sprintf("bench%03d", i)
		if _, err := profiles.Upsert(ctx, userID, "Genre: Rock.", embedding); err != nil {
			b.Fatalf("Upsert failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.FindSimilar(ctx, "bench000"); err != nil {
			b.Fatalf("FindSimilar failed: %v", err)
		}
	}
}
