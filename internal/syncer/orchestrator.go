// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package syncer runs the profile sync pipeline: pull a user's recent
// plays from Apple Music, enrich them with catalog metadata, build the
// profile text, embed it, and store the document. A background manager
// re-runs the pipeline for every known user on a schedule.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/concentus/internal/applemusic"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/embedding"
	"github.com/tomtom215/concentus/internal/events"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
	"github.com/tomtom215/concentus/internal/models"
	"github.com/tomtom215/concentus/internal/profile"
)

// ErrNoRecentTracks reports that Apple Music returned an empty recent
// tracks list for the user, so there is nothing to build a profile from.
// Any previously stored profile is left untouched.
var ErrNoRecentTracks = errors.New("no recent tracks found for user")

// Orchestrator executes the sync pipeline for a single user. Every step
// must succeed for the stored profile to change; a failure at any stage
// aborts the run without partial writes.
type Orchestrator struct {
	apple    applemusic.ClientInterface
	embedder embedding.Provider
	profiles *profile.Store
	bus      *events.Bus
	limit    int
}

// NewOrchestrator creates a sync orchestrator. The bus may be nil to
// disable event publication, which tests and one-shot tooling use.
func NewOrchestrator(apple applemusic.ClientInterface, embedder embedding.Provider, profiles *profile.Store, bus *events.Bus, cfg config.SyncConfig) *Orchestrator {
	limit := cfg.RecentLimit
	if limit <= 0 {
		limit = applemusic.DefaultRecentLimit
	}
	return &Orchestrator{
		apple:    apple,
		embedder: embedder,
		profiles: profiles,
		bus:      bus,
		limit:    limit,
	}
}

// Sync runs the full pipeline for one user and returns what was written.
// The storefront selects the catalog to resolve track metadata against;
// empty falls back to the client's configured default.
func (o *Orchestrator) Sync(ctx context.Context, userID, userToken, storefront string) (*models.SyncResult, error) {
	start := time.Now()

	result, err := o.run(ctx, userID, userToken, storefront)

	processed := 0
	if result != nil {
		processed = result.SongsProcessed
	}
	metrics.RecordSyncOperation(time.Since(start), processed, err)

	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("user_id", userID).
		Int("songs_processed", result.SongsProcessed).
		Int("embedding_dim", result.EmbeddingDim).
		Strs("top_genres", result.TopGenres).
		Dur("duration", time.Since(start)).
		Msg("Profile sync completed")

	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, userID, userToken, storefront string) (*models.SyncResult, error) {
	recent, err := o.apple.RecentTracks(ctx, userToken, o.limit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent tracks for %s: %w", userID, err)
	}
	if len(recent.Data) == 0 {
		return nil, fmt.Errorf("syncing %s: %w", userID, ErrNoRecentTracks)
	}

	ids := make([]string, 0, len(recent.Data))
	for _, song := range recent.Data {
		if song.ID != "" {
			ids = append(ids, song.ID)
		}
	}

	catalog, err := o.apple.CatalogSongs(ctx, storefront, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog songs for %s: %w", userID, err)
	}

	// The profile text is built from the catalog lookup, not the raw
	// recent list: catalog attributes carry the genre names.
	tracks := catalog.Tracks()
	text, topGenres := profile.BuildText(tracks)

	vector, err := o.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding profile for %s: %w", userID, err)
	}

	partition, err := o.profiles.Upsert(ctx, userID, text, vector)
	if err != nil {
		return nil, fmt.Errorf("writing profile to storage for %s: %w", userID, err)
	}

	o.publishProfileUpdated(ctx, userID, len(tracks), topGenres)

	return &models.SyncResult{
		UserID:         userID,
		TopGenres:      topGenres,
		SongsProcessed: len(tracks),
		EmbeddingDim:   len(vector),
		ProfileText:    text,
		CollectionName: partition,
	}, nil
}

// publishProfileUpdated emits the post-sync event. The profile write has
// already landed, so a publish failure is logged rather than surfaced.
func (o *Orchestrator) publishProfileUpdated(ctx context.Context, userID string, trackCount int, topGenres []string) {
	if o.bus == nil {
		return
	}
	event := events.NewProfileUpdated(userID, trackCount, topGenres)
	if err := o.bus.PublishProfileUpdated(ctx, event); err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("Failed to publish profile updated event")
	}
}

// Status reports whether a user has a stored profile and when it was
// last written. A missing profile is a status, not an error.
func (o *Orchestrator) Status(ctx context.Context, userID string) (*models.SyncStatus, error) {
	doc, err := o.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return &models.SyncStatus{UserID: userID}, nil
		}
		return nil, fmt.Errorf("loading sync status for %s: %w", userID, err)
	}

	ts := doc.Timestamp
	return &models.SyncStatus{
		IsSynced:       true,
		UserID:         userID,
		LastUpdate:     &ts,
		HasProfileText: doc.Text != "",
	}, nil
}
