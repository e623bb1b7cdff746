// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package similarity

import "math"

// Cosine computes the cosine similarity between two vectors.
//
// Returns 0.0 when either vector is empty, when the lengths differ, or
// when either magnitude is zero. Mismatched vectors are a normal
// condition here: profiles embedded by different providers can carry
// different dimensions, and they simply score as unrelated rather than
// erroring the whole scan.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	if len(a) != len(b) {
		return 0.0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Percent converts a raw similarity score to a percentage rounded to
// two decimal places, the shape clients display directly.
func Percent(sim float64) float64 {
	return math.Round(sim*10000) / 100
}
