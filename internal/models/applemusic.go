// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package models

// SongsResponse is the wire shape shared by the Apple Music recent-tracks and
// catalog-songs endpoints. Every field is optional on the wire; missing
// attributes decode to zero values and downstream consumers apply their own
// default policy (typically "Unknown").
type SongsResponse struct {
	Data []SongResource `json:"data"`
	Next string         `json:"next,omitempty"`
}

// SongResource is one catalog entry as returned by the Apple Music API.
type SongResource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type,omitempty"`
	Href       string         `json:"href,omitempty"`
	Attributes SongAttributes `json:"attributes"`
}

// SongAttributes holds the subset of catalog metadata the profile pipeline
// consumes. Apple returns many more fields; they are ignored on decode.
type SongAttributes struct {
	Name        string   `json:"name"`
	ArtistName  string   `json:"artistName"`
	AlbumName   string   `json:"albumName,omitempty"`
	GenreNames  []string `json:"genreNames"`
	DurationMS  int64    `json:"durationInMillis,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
}

// Track is the flattened catalog record the profile pipeline operates on.
// It exists only within one sync call and is never persisted.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ArtistName string   `json:"artistName"`
	GenreNames []string `json:"genreNames"`
}

// Track flattens a wire resource into a pipeline record.
func (r SongResource) Track() Track {
	return Track{
		ID:         r.ID,
		Name:       r.Attributes.Name,
		ArtistName: r.Attributes.ArtistName,
		GenreNames: r.Attributes.GenreNames,
	}
}

// Tracks flattens the response data into pipeline records, preserving order.
func (r SongsResponse) Tracks() []Track {
	if len(r.Data) == 0 {
		return nil
	}
	tracks := make([]Track, 0, len(r.Data))
	for _, res := range r.Data {
		tracks = append(tracks, res.Track())
	}
	return tracks
}
