// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

/*
client.go - Apple Music REST API Client

This file implements a client for the Apple Music API endpoints the
profile sync needs: the caller's recently played tracks (user-scoped,
requires a Music User Token) and catalog song metadata (the recently
played payload omits genres, so IDs are re-fetched from the catalog).

API Reference: https://developer.apple.com/documentation/applemusicapi/
*/

package applemusic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/metrics"
	"github.com/tomtom215/concentus/internal/models"
)

// ErrUnauthorized reports that Apple Music rejected the request's
// credentials, which in practice means the Music User Token expired or
// was revoked. Callers map this to a re-login prompt rather than a
// generic upstream failure.
var ErrUnauthorized = errors.New("apple music rejected the user token")

// DefaultRecentLimit is the number of recently played tracks fetched
// when the caller does not specify a limit.
const DefaultRecentLimit = 30

// ClientInterface defines the Apple Music API operations used by the
// sync pipeline. Both Client and CircuitBreakerClient implement it.
type ClientInterface interface {
	RecentTracks(ctx context.Context, userToken string, limit int) (*models.SongsResponse, error)
	CatalogSongs(ctx context.Context, storefront string, ids []string) (*models.SongsResponse, error)
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client provides access to the Apple Music REST API.
//
// Every request carries a developer token from the TokenSource; user
// scoped requests additionally carry the caller's Music User Token. A
// client-side rate limiter keeps bulk re-syncs under Apple's limits.
type Client struct {
	baseURL    string
	storefront string
	tokens     *TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an Apple Music API client.
func NewClient(cfg config.AppleConfig, tokens *TokenSource) *Client {
	baseURL := strings.TrimSuffix(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.music.apple.com/v1"
	}

	storefront := cfg.Storefront
	if storefront == "" {
		storefront = "us"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 20
	}

	return &Client{
		baseURL:    baseURL,
		storefront: storefront,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// RecentTracks retrieves the user's recently played tracks.
//
// A non-positive limit falls back to DefaultRecentLimit. The response
// data is in played order, most recent first.
func (c *Client) RecentTracks(ctx context.Context, userToken string, limit int) (*models.SongsResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	endpoint := "/me/recent/played/tracks?" + query.Encode()

	resp, err := c.doRequest(ctx, "recent_tracks", endpoint, userToken)
	if err != nil {
		return nil, fmt.Errorf("apple music recent tracks request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("apple music recent tracks returned status %d: %w", resp.StatusCode, ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("apple music recent tracks returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("apple music recent tracks returned status %d: %s", resp.StatusCode, string(body))
	}

	var songs models.SongsResponse
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		return nil, fmt.Errorf("failed to decode recent tracks: %w", err)
	}

	return &songs, nil
}

// CatalogSongs retrieves full catalog metadata, including genre names,
// for the given song IDs in one batched request.
//
// An empty storefront falls back to the configured default. An empty
// ID list returns an empty response without a network call.
func (c *Client) CatalogSongs(ctx context.Context, storefront string, ids []string) (*models.SongsResponse, error) {
	if len(ids) == 0 {
		return &models.SongsResponse{Data: []models.SongResource{}}, nil
	}
	if storefront == "" {
		storefront = c.storefront
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	endpoint := fmt.Sprintf("/catalog/%s/songs?%s", url.PathEscape(storefront), query.Encode())

	resp, err := c.doRequest(ctx, "catalog_songs", endpoint, "")
	if err != nil {
		return nil, fmt.Errorf("apple music catalog songs request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("apple music catalog songs returned status %d: %w", resp.StatusCode, ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("apple music catalog songs returned status %d (failed to read body)", resp.StatusCode)
		}
		return nil, fmt.Errorf("apple music catalog songs returned status %d: %s", resp.StatusCode, string(body))
	}

	var songs models.SongsResponse
	if err := json.NewDecoder(resp.Body).Decode(&songs); err != nil {
		return nil, fmt.Errorf("failed to decode catalog songs: %w", err)
	}

	return &songs, nil
}

// doRequest performs a rate-limited GET against the Apple Music API.
// The endpoint label feeds the Apple API request metrics.
func (c *Client) doRequest(ctx context.Context, label, endpoint, userToken string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	devToken, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("obtaining developer token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+devToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if userToken != "" {
		req.Header.Set("Music-User-Token", userToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAppleAPIRequest(label, "transport_error", time.Since(start), true)
		return nil, err
	}

	metrics.RecordAppleAPIRequest(label, strconv.Itoa(resp.StatusCode), time.Since(start), resp.StatusCode >= http.StatusBadRequest)
	return resp, nil
}
