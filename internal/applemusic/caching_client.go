// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package applemusic

import (
	"context"

	"github.com/tomtom215/concentus/internal/cache"
	"github.com/tomtom215/concentus/internal/models"
)

// Ensure CachingClient implements ClientInterface
var _ ClientInterface = (*CachingClient)(nil)

// CachingClient wraps a ClientInterface with a TTL cache for catalog
// metadata. A resync pass looks up the same popular songs for user
// after user; catalog records do not change within a cache window, so
// repeat lookups are served locally without spending rate limiter or
// breaker budget.
//
// RecentTracks is per-user listening history and always passes through.
type CachingClient struct {
	inner   ClientInterface
	catalog *cache.Cache
}

// NewCachingClient wraps a client with a catalog metadata cache.
// The cache keys on storefront plus the requested ID list, so the same
// set of songs asked in a different order is a separate entry.
func NewCachingClient(inner ClientInterface, catalog *cache.Cache) *CachingClient {
	return &CachingClient{
		inner:   inner,
		catalog: catalog,
	}
}

// RecentTracks retrieves recently played tracks, bypassing the cache.
func (cc *CachingClient) RecentTracks(ctx context.Context, userToken string, limit int) (*models.SongsResponse, error) {
	return cc.inner.RecentTracks(ctx, userToken, limit)
}

// CatalogSongs retrieves catalog metadata, serving repeat lookups for
// the same storefront and ID list from the cache.
func (cc *CachingClient) CatalogSongs(ctx context.Context, storefront string, ids []string) (*models.SongsResponse, error) {
	key := cache.GenerateKey("catalog_songs", struct {
		Storefront string   `json:"storefront"`
		IDs        []string `json:"ids"`
	}{Storefront: storefront, IDs: ids})

	if data, ok := cc.catalog.Get(key); ok {
		if resp, ok := data.(*models.SongsResponse); ok {
			return resp, nil
		}
	}

	resp, err := cc.inner.CatalogSongs(ctx, storefront, ids)
	if err != nil {
		return nil, err
	}

	cc.catalog.Set(key, resp)
	return resp, nil
}
