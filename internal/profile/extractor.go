// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package profile

import (
	"regexp"
	"strings"

	"github.com/tomtom215/concentus/internal/models"
)

// Extraction patterns. Keywords match case-insensitively; the capture runs
// to the delimiter the builder writes after each field (period for genre,
// comma for the rest). Values are trimmed, empty captures dropped, and
// duplicates removed by exact match in first-seen order.
var (
	genreRe  = regexp.MustCompile(`(?i)Genre:\s*([^.]+)`)
	artistRe = regexp.MustCompile(`(?i)Artist:\s*([^,]+)`)
	songRe   = regexp.MustCompile(`(?i)Song:\s*([^,]+)`)
	albumRe  = regexp.MustCompile(`(?i)Album:\s*([^,]+)`)
)

// Extract parses a profile text into its structured interest lists.
// Empty input yields empty lists, not an error.
func Extract(text string) models.Interests {
	result := models.Interests{
		Genres:  []string{},
		Artists: []string{},
		Songs:   []string{},
		Albums:  []string{},
	}

	if text == "" {
		return result
	}

	result.Genres = extractAll(genreRe, text)
	result.Artists = extractAll(artistRe, text)
	result.Songs = extractAll(songRe, text)
	result.Albums = extractAll(albumRe, text)

	return result
}

// extractAll collects trimmed, de-duplicated captures of re over text.
func extractAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	values := []string{}
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	return values
}
