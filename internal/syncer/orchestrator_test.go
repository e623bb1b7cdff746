// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	json "github.com/goccy/go-json"

	"github.com/tomtom215/concentus/internal/applemusic"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/docstore"
	"github.com/tomtom215/concentus/internal/embedding"
	"github.com/tomtom215/concentus/internal/events"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/models"
	"github.com/tomtom215/concentus/internal/profile"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// fakeAppleClient is a canned-response Apple Music client that records
// the arguments of each call.
type fakeAppleClient struct {
	mu sync.Mutex

	recent           *models.SongsResponse
	recentErr        error
	recentErrByToken map[string]error
	catalog          *models.SongsResponse
	catalogErr       error

	recentCalls    int
	catalogCalls   int
	lastUserToken  string
	lastLimit      int
	lastStorefront string
	lastIDs        []string
}

var _ applemusic.ClientInterface = (*fakeAppleClient)(nil)

func (f *fakeAppleClient) RecentTracks(_ context.Context, userToken string, limit int) (*models.SongsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recentCalls++
	f.lastUserToken = userToken
	f.lastLimit = limit

	if err, ok := f.recentErrByToken[userToken]; ok {
		return nil, err
	}
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if f.recent == nil {
		return &models.SongsResponse{}, nil
	}
	return f.recent, nil
}

func (f *fakeAppleClient) CatalogSongs(_ context.Context, storefront string, ids []string) (*models.SongsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.catalogCalls++
	f.lastStorefront = storefront
	f.lastIDs = append([]string(nil), ids...)

	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	if f.catalog == nil {
		return &models.SongsResponse{}, nil
	}
	return f.catalog, nil
}

func (f *fakeAppleClient) calls() (recent, catalog int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recentCalls, f.catalogCalls
}

// failingEmbedder errors on every call.
type failingEmbedder struct {
	err error
}

func (f *failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, f.err
}

func (f *failingEmbedder) EmbedBatch(context.Context, []string) ([][]float64, error) {
	return nil, f.err
}

func (f *failingEmbedder) Dimensions() int { return 0 }

func song(id, name, artist string, genres ...string) models.SongResource {
	return models.SongResource{
		ID:   id,
		Type: "songs",
		Attributes: models.SongAttributes{
			Name:       name,
			ArtistName: artist,
			GenreNames: genres,
		},
	}
}

func songsResponse(data ...models.SongResource) *models.SongsResponse {
	return &models.SongsResponse{Data: data}
}

func newTestProfiles(t *testing.T) *profile.Store {
	t.Helper()

	docs, err := docstore.Open(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open docstore: %v", err)
	}
	t.Cleanup(func() {
		if err := docs.Close(); err != nil {
			t.Errorf("close docstore: %v", err)
		}
	})
	return profile.NewStore(docs)
}

func newTestBus(t *testing.T) *events.Bus {
	t.Helper()

	bus := events.NewBus(config.EventsConfig{BufferSize: 8})
	t.Cleanup(func() {
		if err := bus.Close(); err != nil {
			t.Errorf("close bus: %v", err)
		}
	})
	return bus
}

func receiveEvent[T any](t *testing.T, ch <-chan *message.Message) T {
	t.Helper()

	var event T
	select {
	case msg := <-ch:
		msg.Ack()
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			t.Fatalf("unmarshal event payload: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return event
}

func TestSyncBuildsProfileFromCatalog(t *testing.T) {
	apple := &fakeAppleClient{
		recent: songsResponse(
			song("1001", "ignored", "ignored"),
			song("1002", "ignored", "ignored"),
			song("1003", "ignored", "ignored"),
		),
		catalog: songsResponse(
			song("1001", "Karma Police", "Radiohead", "Rock"),
			song("1002", "Paranoid Android", "Radiohead", "Rock"),
			song("1003", "So What", "Miles Davis", "Jazz"),
		),
	}
	embedder := embedding.NewFallback()
	profiles := newTestProfiles(t)
	bus := newTestBus(t)

	ctx := context.Background()
	updates, err := bus.Subscribe(ctx, events.TopicProfileUpdated)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	orch := NewOrchestrator(apple, embedder, profiles, bus, config.SyncConfig{})

	result, err := orch.Sync(ctx, "user1", "token-abc", "us")
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if result.UserID != "user1" {
		t.Errorf("UserID = %q, want %q", result.UserID, "user1")
	}
	if result.SongsProcessed != 3 {
		t.Errorf("SongsProcessed = %d, want 3", result.SongsProcessed)
	}
	if result.EmbeddingDim != embedder.Dimensions() {
		t.Errorf("EmbeddingDim = %d, want %d", result.EmbeddingDim, embedder.Dimensions())
	}
	wantGenres := []string{"Rock", "Jazz"}
	if len(result.TopGenres) != len(wantGenres) {
		t.Fatalf("TopGenres = %v, want %v", result.TopGenres, wantGenres)
	}
	for i, g := range wantGenres {
		if result.TopGenres[i] != g {
			t.Errorf("TopGenres[%d] = %q, want %q", i, result.TopGenres[i], g)
		}
	}
	if result.CollectionName != "user_user1" {
		t.Errorf("CollectionName = %q, want %q", result.CollectionName, "user_user1")
	}
	if !strings.Contains(result.ProfileText, "Song: Karma Police, Artist: Radiohead, Genre: Rock.") {
		t.Errorf("ProfileText missing catalog track: %q", result.ProfileText)
	}

	// The client must be called with the caller's token, the default
	// limit, the requested storefront, and the recent track IDs.
	if apple.lastUserToken != "token-abc" {
		t.Errorf("user token = %q, want %q", apple.lastUserToken, "token-abc")
	}
	if apple.lastLimit != applemusic.DefaultRecentLimit {
		t.Errorf("limit = %d, want %d", apple.lastLimit, applemusic.DefaultRecentLimit)
	}
	if apple.lastStorefront != "us" {
		t.Errorf("storefront = %q, want %q", apple.lastStorefront, "us")
	}
	wantIDs := []string{"1001", "1002", "1003"}
	if len(apple.lastIDs) != len(wantIDs) {
		t.Fatalf("catalog ids = %v, want %v", apple.lastIDs, wantIDs)
	}

	doc, err := profiles.Get(ctx, "user1")
	if err != nil {
		t.Fatalf("Get() after sync error = %v", err)
	}
	if doc.Text != result.ProfileText {
		t.Errorf("stored text = %q, want %q", doc.Text, result.ProfileText)
	}
	if !doc.HasEmbedding() {
		t.Error("stored profile has no embedding")
	}

	event := receiveEvent[events.ProfileUpdated](t, updates)
	if event.UserID != "user1" {
		t.Errorf("event UserID = %q, want %q", event.UserID, "user1")
	}
	if event.TrackCount != 3 {
		t.Errorf("event TrackCount = %d, want 3", event.TrackCount)
	}
	if len(event.TopGenres) != 2 || event.TopGenres[0] != "Rock" {
		t.Errorf("event TopGenres = %v, want %v", event.TopGenres, wantGenres)
	}
}

func TestSyncSkipsSongsWithoutIDs(t *testing.T) {
	apple := &fakeAppleClient{
		recent: songsResponse(
			song("2001", "a", "b"),
			song("", "local file", "b"),
			song("2002", "c", "d"),
		),
		catalog: songsResponse(
			song("2001", "a", "b", "Pop"),
			song("2002", "c", "d", "Pop"),
		),
	}
	orch := NewOrchestrator(apple, embedding.NewFallback(), newTestProfiles(t), nil, config.SyncConfig{})

	if _, err := orch.Sync(context.Background(), "user2", "tok", ""); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	wantIDs := []string{"2001", "2002"}
	if len(apple.lastIDs) != len(wantIDs) {
		t.Fatalf("catalog ids = %v, want %v", apple.lastIDs, wantIDs)
	}
	for i, id := range wantIDs {
		if apple.lastIDs[i] != id {
			t.Errorf("catalog ids[%d] = %q, want %q", i, apple.lastIDs[i], id)
		}
	}
}

func TestSyncNoRecentTracks(t *testing.T) {
	apple := &fakeAppleClient{recent: songsResponse()}
	profiles := newTestProfiles(t)
	orch := NewOrchestrator(apple, embedding.NewFallback(), profiles, nil, config.SyncConfig{})

	result, err := orch.Sync(context.Background(), "user3", "tok", "")
	if !errors.Is(err, ErrNoRecentTracks) {
		t.Fatalf("Sync() error = %v, want ErrNoRecentTracks", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}

	if _, catalogCalls := apple.calls(); catalogCalls != 0 {
		t.Errorf("catalog calls = %d, want 0", catalogCalls)
	}
	if _, err := profiles.Get(context.Background(), "user3"); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSyncRecentTracksError(t *testing.T) {
	apple := &fakeAppleClient{
		recentErr: errors.New("apple music recent tracks request failed: connection refused"),
	}
	orch := NewOrchestrator(apple, embedding.NewFallback(), newTestProfiles(t), nil, config.SyncConfig{})

	_, err := orch.Sync(context.Background(), "user4", "tok", "")
	if err == nil {
		t.Fatal("Sync() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "recent tracks") {
		t.Errorf("error = %v, want mention of recent tracks", err)
	}
	if _, catalogCalls := apple.calls(); catalogCalls != 0 {
		t.Errorf("catalog calls = %d, want 0", catalogCalls)
	}
}

func TestSyncUnauthorizedPassthrough(t *testing.T) {
	apple := &fakeAppleClient{
		recentErr: fmt.Errorf("apple music recent tracks returned status 403: %w", applemusic.ErrUnauthorized),
	}
	orch := NewOrchestrator(apple, embedding.NewFallback(), newTestProfiles(t), nil, config.SyncConfig{})

	_, err := orch.Sync(context.Background(), "user5", "expired", "")
	if !errors.Is(err, applemusic.ErrUnauthorized) {
		t.Errorf("Sync() error = %v, want ErrUnauthorized in chain", err)
	}
}

func TestSyncCatalogError(t *testing.T) {
	apple := &fakeAppleClient{
		recent:     songsResponse(song("3001", "a", "b")),
		catalogErr: errors.New("apple music catalog songs request failed: timeout"),
	}
	profiles := newTestProfiles(t)
	orch := NewOrchestrator(apple, embedding.NewFallback(), profiles, nil, config.SyncConfig{})

	if _, err := orch.Sync(context.Background(), "user6", "tok", ""); err == nil {
		t.Fatal("Sync() error = nil, want error")
	}
	if _, err := profiles.Get(context.Background(), "user6"); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSyncEmbedError(t *testing.T) {
	apple := &fakeAppleClient{
		recent:  songsResponse(song("4001", "a", "b")),
		catalog: songsResponse(song("4001", "a", "b", "Pop")),
	}
	profiles := newTestProfiles(t)
	embedder := &failingEmbedder{err: errors.New("creating embeddings: model overloaded")}
	orch := NewOrchestrator(apple, embedder, profiles, nil, config.SyncConfig{})

	_, err := orch.Sync(context.Background(), "user7", "tok", "")
	if err == nil {
		t.Fatal("Sync() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "embedding") {
		t.Errorf("error = %v, want mention of embedding", err)
	}

	// A failed embedding must not leave a partial profile behind.
	if _, err := profiles.Get(context.Background(), "user7"); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSyncStorageError(t *testing.T) {
	apple := &fakeAppleClient{
		recent:  songsResponse(song("5001", "a", "b")),
		catalog: songsResponse(song("5001", "a", "b", "Pop")),
	}

	docs, err := docstore.Open(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open docstore: %v", err)
	}
	if err := docs.Close(); err != nil {
		t.Fatalf("close docstore: %v", err)
	}

	orch := NewOrchestrator(apple, embedding.NewFallback(), profile.NewStore(docs), nil, config.SyncConfig{})

	_, err = orch.Sync(context.Background(), "user8", "tok", "")
	if err == nil {
		t.Fatal("Sync() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "storage") {
		t.Errorf("error = %v, want mention of storage", err)
	}
}

func TestSyncReplacesExistingProfile(t *testing.T) {
	apple := &fakeAppleClient{
		recent:  songsResponse(song("6001", "a", "b")),
		catalog: songsResponse(song("6001", "Old Song", "Old Artist", "Rock")),
	}
	profiles := newTestProfiles(t)
	orch := NewOrchestrator(apple, embedding.NewFallback(), profiles, nil, config.SyncConfig{})

	ctx := context.Background()
	if _, err := orch.Sync(ctx, "user9", "tok", ""); err != nil {
		t.Fatalf("first Sync() error = %v", err)
	}

	apple.mu.Lock()
	apple.recent = songsResponse(song("6002", "a", "b"))
	apple.catalog = songsResponse(song("6002", "New Song", "New Artist", "Jazz"))
	apple.mu.Unlock()

	if _, err := orch.Sync(ctx, "user9", "tok", ""); err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}

	doc, err := profiles.Get(ctx, "user9")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if strings.Contains(doc.Text, "Old Song") {
		t.Errorf("stored text still mentions replaced track: %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "New Song") {
		t.Errorf("stored text missing new track: %q", doc.Text)
	}
}

func TestSyncCountsCatalogTracks(t *testing.T) {
	// Catalog lookups can return fewer songs than requested when IDs
	// have left the catalog; the count reflects what the profile is
	// actually built from.
	apple := &fakeAppleClient{
		recent: songsResponse(
			song("7001", "a", "b"),
			song("7002", "a", "b"),
			song("7003", "a", "b"),
			song("7004", "a", "b"),
		),
		catalog: songsResponse(
			song("7001", "a", "b", "Pop"),
			song("7003", "c", "d", "Pop"),
		),
	}
	orch := NewOrchestrator(apple, embedding.NewFallback(), newTestProfiles(t), nil, config.SyncConfig{})

	result, err := orch.Sync(context.Background(), "user10", "tok", "")
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if result.SongsProcessed != 2 {
		t.Errorf("SongsProcessed = %d, want 2", result.SongsProcessed)
	}
}

func TestSyncCustomRecentLimit(t *testing.T) {
	apple := &fakeAppleClient{
		recent:  songsResponse(song("8001", "a", "b")),
		catalog: songsResponse(song("8001", "a", "b", "Pop")),
	}
	orch := NewOrchestrator(apple, embedding.NewFallback(), newTestProfiles(t), nil, config.SyncConfig{RecentLimit: 10})

	if _, err := orch.Sync(context.Background(), "user11", "tok", ""); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if apple.lastLimit != 10 {
		t.Errorf("limit = %d, want 10", apple.lastLimit)
	}
}

func TestStatus(t *testing.T) {
	apple := &fakeAppleClient{
		recent:  songsResponse(song("9001", "a", "b")),
		catalog: songsResponse(song("9001", "a", "b", "Pop")),
	}
	profiles := newTestProfiles(t)
	orch := NewOrchestrator(apple, embedding.NewFallback(), profiles, nil, config.SyncConfig{})

	ctx := context.Background()

	status, err := orch.Status(ctx, "user12")
	if err != nil {
		t.Fatalf("Status() before sync error = %v", err)
	}
	if status.IsSynced {
		t.Error("IsSynced = true before sync, want false")
	}
	if status.UserID != "user12" {
		t.Errorf("UserID = %q, want %q", status.UserID, "user12")
	}
	if status.LastUpdate != nil {
		t.Errorf("LastUpdate = %v before sync, want nil", status.LastUpdate)
	}

	before := time.Now().UTC()
	if _, err := orch.Sync(ctx, "user12", "tok", ""); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	status, err = orch.Status(ctx, "user12")
	if err != nil {
		t.Fatalf("Status() after sync error = %v", err)
	}
	if !status.IsSynced {
		t.Error("IsSynced = false after sync, want true")
	}
	if !status.HasProfileText {
		t.Error("HasProfileText = false after sync, want true")
	}
	if status.LastUpdate == nil {
		t.Fatal("LastUpdate = nil after sync")
	}
	if status.LastUpdate.Before(before.Add(-time.Second)) {
		t.Errorf("LastUpdate = %v, want at or after %v", status.LastUpdate, before)
	}
}
