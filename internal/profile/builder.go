// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package profile

import (
	"sort"
	"strings"

	"github.com/tomtom215/concentus/internal/models"
)

// TextPreamble opens every generated profile text.
const TextPreamble = "User Listening Profile: "

// unknownValue substitutes for missing track attributes.
const unknownValue = "Unknown"

// maxTopGenres bounds the trailing top-genre list.
const maxTopGenres = 3

// BuildText renders the canonical profile text for an ordered track
// sequence and returns it together with the top genres, most frequent
// first.
//
// Each track contributes "Song: {name}, Artist: {artist}, Genre: {genre}. "
// with "Unknown" substituted for a missing name or artist. The genre is the
// first entry of the track's genre list, or "Unknown" when the list is
// empty. Genre frequency is counted only for genres that are neither empty
// nor "Unknown"; ties in the top-genre ranking break by first appearance.
// The text always closes with "Top Genres: {g1, g2, g3}.", which degrades
// to "Top Genres: ." when nothing was countable. An empty track list is
// valid input and produces exactly that low-information text.
func BuildText(tracks []models.Track) (string, []string) {
	var b strings.Builder
	b.WriteString(TextPreamble)

	counts := make(map[string]int)
	order := []string{}

	for _, t := range tracks {
		name := t.Name
		if name == "" {
			name = unknownValue
		}
		artist := t.ArtistName
		if artist == "" {
			artist = unknownValue
		}
		genre := unknownValue
		if len(t.GenreNames) > 0 {
			genre = t.GenreNames[0]
		}

		b.WriteString("Song: ")
		b.WriteString(name)
		b.WriteString(", Artist: ")
		b.WriteString(artist)
		b.WriteString(", Genre: ")
		b.WriteString(genre)
		b.WriteString(". ")

		if genre != "" && genre != unknownValue {
			if _, seen := counts[genre]; !seen {
				order = append(order, genre)
			}
			counts[genre]++
		}
	}

	top := make([]string, len(order))
	copy(top, order)
	sort.SliceStable(top, func(i, j int) bool {
		return counts[top[i]] > counts[top[j]]
	})
	if len(top) > maxTopGenres {
		top = top[:maxTopGenres]
	}

	b.WriteString("Top Genres: ")
	b.WriteString(strings.Join(top, ", "))
	b.WriteString(".")

	return b.String(), top
}
