// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package applemusic

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/concentus/internal/cache"
	"github.com/tomtom215/concentus/internal/models"
)

// countingClient stubs ClientInterface and counts upstream calls.
type countingClient struct {
	recentCalls  atomic.Int32
	catalogCalls atomic.Int32
	catalogErr   error
}

var _ ClientInterface = (*countingClient)(nil)

func (c *countingClient) RecentTracks(_ context.Context, _ string, _ int) (*models.SongsResponse, error) {
	c.recentCalls.Add(1)
	resp := songsPayload()
	return &resp, nil
}

func (c *countingClient) CatalogSongs(_ context.Context, _ string, _ []string) (*models.SongsResponse, error) {
	c.catalogCalls.Add(1)
	if c.catalogErr != nil {
		return nil, c.catalogErr
	}
	resp := songsPayload()
	return &resp, nil
}

func TestCachingClientCatalogHit(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, cache.New("catalog_hit_test", time.Minute))

	first, err := client.CatalogSongs(context.Background(), "us", []string{"1001", "1002"})
	if err != nil {
		t.Fatalf("CatalogSongs() error = %v", err)
	}

	second, err := client.CatalogSongs(context.Background(), "us", []string{"1001", "1002"})
	if err != nil {
		t.Fatalf("CatalogSongs() repeat error = %v", err)
	}

	if got := inner.catalogCalls.Load(); got != 1 {
		t.Errorf("upstream catalog calls = %d, want 1", got)
	}
	if first != second {
		t.Error("expected the cached response to be served on the repeat lookup")
	}
	if len(second.Data) != 2 {
		t.Errorf("cached response songs = %d, want 2", len(second.Data))
	}
}

func TestCachingClientKeysOnArguments(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, cache.New("catalog_key_test", time.Minute))

	calls := []struct {
		storefront string
		ids        []string
	}{
		{"us", []string{"1001"}},
		{"us", []string{"1002"}},
		{"gb", []string{"1001"}},
	}

	for _, call := range calls {
		if _, err := client.CatalogSongs(context.Background(), call.storefront, call.ids); err != nil {
			t.Fatalf("CatalogSongs(%q, %v) error = %v", call.storefront, call.ids, err)
		}
	}

	if got := inner.catalogCalls.Load(); got != 3 {
		t.Errorf("upstream catalog calls = %d, want 3 (distinct keys)", got)
	}
}

func TestCachingClientDoesNotCacheErrors(t *testing.T) {
	inner := &countingClient{catalogErr: ErrUnauthorized}
	client := NewCachingClient(inner, cache.New("catalog_err_test", time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := client.CatalogSongs(context.Background(), "us", []string{"1001"}); err == nil {
			t.Fatal("CatalogSongs() error = nil, want error")
		}
	}

	if got := inner.catalogCalls.Load(); got != 2 {
		t.Errorf("upstream catalog calls = %d, want 2 (failures are retried)", got)
	}
}

func TestCachingClientRecentTracksPassthrough(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, cache.New("catalog_recent_test", time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := client.RecentTracks(context.Background(), "token", 30); err != nil {
			t.Fatalf("RecentTracks() error = %v", err)
		}
	}

	if got := inner.recentCalls.Load(); got != 2 {
		t.Errorf("upstream recent calls = %d, want 2 (history is never cached)", got)
	}
}

func TestCachingClientExpiry(t *testing.T) {
	inner := &countingClient{}
	client := NewCachingClient(inner, cache.New("catalog_expiry_test", time.Nanosecond))

	if _, err := client.CatalogSongs(context.Background(), "us", []string{"1001"}); err != nil {
		t.Fatalf("CatalogSongs() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if _, err := client.CatalogSongs(context.Background(), "us", []string{"1001"}); err != nil {
		t.Fatalf("CatalogSongs() after expiry error = %v", err)
	}

	if got := inner.catalogCalls.Load(); got != 2 {
		t.Errorf("upstream catalog calls = %d, want 2 (entry expired)", got)
	}
}
