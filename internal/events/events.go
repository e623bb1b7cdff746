// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package events is the in-process pub/sub layer between the sync pipeline
// and its observers. The sync orchestrator publishes profile.updated after
// each successful profile write, the background resync manager publishes
// resync.completed after each batch, and subscribers (websocket hub,
// similarity cache invalidation) attach through Router consumer handlers.
//
// Delivery is at-most-once: events published while a subscriber is down are
// dropped, and handler failures are logged rather than redelivered. Everything
// an event announces can be re-read from the store, so observers never depend
// on the bus for correctness.
package events

import (
	"time"
)

// Topics carried by the bus. Payload types are declared next to their topic.
const (
	// TopicProfileUpdated carries ProfileUpdated payloads.
	TopicProfileUpdated = "profile.updated"

	// TopicResyncCompleted carries ResyncCompleted payloads.
	TopicResyncCompleted = "resync.completed"
)

// ProfileUpdated announces that a user's taste profile document was replaced.
type ProfileUpdated struct {
	UserID     string    `json:"userId"`
	TrackCount int       `json:"trackCount"`
	TopGenres  []string  `json:"topGenres"`
	At         time.Time `json:"at"`
}

// NewProfileUpdated stamps a profile event with the current UTC time.
func NewProfileUpdated(userID string, trackCount int, topGenres []string) ProfileUpdated {
	return ProfileUpdated{
		UserID:     userID,
		TrackCount: trackCount,
		TopGenres:  topGenres,
		At:         time.Now().UTC(),
	}
}

// ResyncCompleted announces the outcome of one background resync batch.
type ResyncCompleted struct {
	Users      int       `json:"users"`
	Synced     int       `json:"synced"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	DurationMS int64     `json:"durationMs"`
	At         time.Time `json:"at"`
}

// NewResyncCompleted stamps a resync batch summary with the current UTC time.
func NewResyncCompleted(users, synced, failed, skipped int, duration time.Duration) ResyncCompleted {
	return ResyncCompleted{
		Users:      users,
		Synced:     synced,
		Failed:     failed,
		Skipped:    skipped,
		DurationMS: duration.Milliseconds(),
		At:         time.Now().UTC(),
	}
}
