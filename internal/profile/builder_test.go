// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package profile

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/concentus/internal/models"
)

func track(name, artist string, genres ...string) models.Track {
	return models.Track{Name: name, ArtistName: artist, GenreNames: genres}
}

func TestBuildTextEmpty(t *testing.T) {
	text, top := BuildText(nil)

	want := "User Listening Profile: Top Genres: ."
	if text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
	if len(top) != 0 {
		t.Errorf("Expected no top genres, got %v", top)
	}
}

func TestBuildTextExactFormat(t *testing.T) {
	tracks := []models.Track{
		track("Bohemian Rhapsody", "Queen", "Rock"),
		track("Take Five", "Dave Brubeck", "Jazz"),
	}

	text, top := BuildText(tracks)

	want := "User Listening Profile: " +
		"Song: Bohemian Rhapsody, Artist: Queen, Genre: Rock. " +
		"Song: Take Five, Artist: Dave Brubeck, Genre: Jazz. " +
		"Top Genres: Rock, Jazz."
	if text != want {
		t.Errorf("Expected:\n%q\ngot:\n%q", want, text)
	}
	if !reflect.DeepEqual(top, []string{"Rock", "Jazz"}) {
		t.Errorf("Expected top genres [Rock Jazz], got %v", top)
	}
}

func TestBuildTextUnknownSubstitution(t *testing.T) {
	tests := []struct {
		name  string
		track models.Track
		want  string
	}{
		{
			name:  "missing name",
			track: track("", "Queen", "Rock"),
			want:  "Song: Unknown, Artist: Queen, Genre: Rock. ",
		},
		{
			name:  "missing artist",
			track: track("Song A", "", "Rock"),
			want:  "Song: Song A, Artist: Unknown, Genre: Rock. ",
		},
		{
			name:  "no genres",
			track: track("Song A", "Queen"),
			want:  "Song: Song A, Artist: Queen, Genre: Unknown. ",
		},
		{
			name:  "all missing",
			track: models.Track{},
			want:  "Song: Unknown, Artist: Unknown, Genre: Unknown. ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := BuildText([]models.Track{tt.track})
			if !strings.Contains(text, tt.want) {
				t.Errorf("Expected text to contain %q, got %q", tt.want, text)
			}
		})
	}
}

func TestBuildTextTopGenresByFrequency(t *testing.T) {
	// Pop:3, Rock:2, Jazz:1 regardless of appearance order
	tracks := []models.Track{
		track("a", "x", "Rock"),
		track("b", "x", "Rock"),
		track("c", "y", "Jazz"),
		track("d", "z", "Pop"),
		track("e", "z", "Pop"),
		track("f", "z", "Pop"),
	}

	_, top := BuildText(tracks)

	want := []string{"Pop", "Rock", "Jazz"}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("Expected %v, got %v", want, top)
	}
}

func TestBuildTextTopGenresTieOrder(t *testing.T) {
	// Equal counts keep first-appearance order
	tracks := []models.Track{
		track("a", "x", "Jazz"),
		track("b", "y", "Rock"),
		track("c", "z", "Pop"),
	}

	_, top := BuildText(tracks)

	want := []string{"Jazz", "Rock", "Pop"}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("Expected tie order %v, got %v", want, top)
	}
}

func TestBuildTextTopGenresLimit(t *testing.T) {
	tracks := []models.Track{
		track("a", "x", "Jazz"),
		track("b", "x", "Rock"),
		track("c", "x", "Pop"),
		track("d", "x", "Metal"),
		track("e", "x", "Folk"),
	}

	text, top := BuildText(tracks)

	if len(top) != 3 {
		t.Fatalf("Expected 3 top genres, got %v", top)
	}
	if !strings.HasSuffix(text, "Top Genres: Jazz, Rock, Pop.") {
		t.Errorf("Expected top-3 suffix, got %q", text)
	}
}

func TestBuildTextUnknownAndEmptyGenresNotCounted(t *testing.T) {
	tracks := []models.Track{
		track("a", "x", "Unknown"),
		track("b", "x", ""),
		track("c", "x"),
		track("d", "x", "Rock"),
	}

	text, top := BuildText(tracks)

	if !reflect.DeepEqual(top, []string{"Rock"}) {
		t.Errorf("Expected only Rock counted, got %v", top)
	}
	// An empty first genre entry still renders, it just is not counted
	if !strings.Contains(text, "Song: b, Artist: x, Genre: . ") {
		t.Errorf("Expected empty genre to render verbatim, got %q", text)
	}
	if !strings.HasSuffix(text, "Top Genres: Rock.") {
		t.Errorf("Expected single top genre suffix, got %q", text)
	}
}

func TestBuildTextOnlySecondaryGenresIgnored(t *testing.T) {
	// Only the first genre entry counts; the rest are Apple's secondary tags
	tracks := []models.Track{
		track("a", "x", "Pop", "Music"),
		track("b", "y", "Rock", "Music"),
	}

	_, top := BuildText(tracks)

	want := []string{"Pop", "Rock"}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("Expected %v, got %v", want, top)
	}
}

func TestBuildTextDeterministic(t *testing.T) {
	tracks := []models.Track{
		track("a", "x", "Pop"),
		track("b", "y", "Rock"),
		track("c", "z", "Pop"),
	}

	text1, top1 := BuildText(tracks)
	for i := 0; i < 20; i++ {
		text2, top2 := BuildText(tracks)
		if text1 != text2 {
			t.Fatal("Expected identical text across runs")
		}
		if !reflect.DeepEqual(top1, top2) {
			t.Fatalf("Expected identical top genres across runs, got %v then %v", top1, top2)
		}
	}
}

func BenchmarkBuildText(b *testing.B) {
	tracks := make([]models.Track, 30)
	for i := range tracks {
		tracks[i] = track("Some Song Title", "Some Artist", "Pop", "Music")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildText(tracks)
	}
}
