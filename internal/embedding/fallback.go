// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package embedding

import (
	"context"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
)

// FallbackDimensions is the fixed vector length of the fallback embedder.
const FallbackDimensions = 128

// maxWordFeatures bounds the word-frequency feature block.
const maxWordFeatures = 10

// Feature patterns. These are case-sensitive and expect the exact
// spacing the profile builder emits; lowercase or respaced variants do
// not count. Embeddings persisted by earlier deployments were computed
// against this exact matching, so loosening it would shift vectors for
// unchanged texts.
var (
	featGenreRe    = regexp.MustCompile(`Genre: ([^.]+)`)
	featSongRe     = regexp.MustCompile(`Song:`)
	featTopGenreRe = regexp.MustCompile(`Top Genres: (.+)`)
	featWordRe     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// Fallback is a deterministic text-feature embedder producing
// 128-dimensional vectors without a model or network access.
//
// The vector layout is: length signal, genre density, song density,
// top-genre presence flag, up to ten word-frequency features, then
// character-code padding to 128, all L2-normalized.
type Fallback struct{}

// NewFallback creates the deterministic fallback embedder.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Embed generates a vector for a single text. It never returns an
// error: if feature extraction panics on unexpected input, the result
// degrades to uniform random values in [0, 0.1) and the degradation is
// counted on the embedding_fallbacks_total metric.
func (f *Fallback) Embed(_ context.Context, text string) ([]float64, error) {
	start := time.Now()
	vec := f.embed(text)
	metrics.RecordEmbedding(labelFallback, time.Since(start))
	return vec, nil
}

// EmbedBatch generates vectors for multiple texts.
func (f *Fallback) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the fixed fallback vector length.
func (f *Fallback) Dimensions() int {
	return FallbackDimensions
}

func (f *Fallback) embed(text string) (vec []float64) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn().
				Interface("panic", r).
				Msg("Fallback embedder degraded to random output")
			metrics.EmbeddingFallbacks.Inc()
			vec = randomVector()
		}
	}()

	return features(text)
}

// features builds the raw 128-entry feature vector and normalizes it.
func features(text string) []float64 {
	feats := rawFeatures(text)
	normalize(feats)
	return feats
}

// rawFeatures builds the unnormalized feature vector.
func rawFeatures(text string) []float64 {
	feats := make([]float64, 0, FallbackDimensions)

	// Length signal, capped at 1
	feats = append(feats, math.Min(float64(utf8.RuneCountInString(text))/1000, 1))

	// Genre and song density
	feats = append(feats, float64(len(featGenreRe.FindAllString(text, -1)))/50)
	feats = append(feats, float64(len(featSongRe.FindAllString(text, -1)))/50)

	// Top-genre section presence
	if featTopGenreRe.MatchString(text) {
		feats = append(feats, 1.0)
	} else {
		feats = append(feats, 0.0)
	}

	// Word-frequency features over words longer than three runes,
	// most frequent first, ties by first appearance
	words := featWordRe.FindAllString(strings.ToLower(text), -1)
	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if utf8.RuneCountInString(w) > 3 {
			if _, seen := counts[w]; !seen {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	top := make([]string, len(order))
	copy(top, order)
	sort.SliceStable(top, func(i, j int) bool {
		return counts[top[i]] > counts[top[j]]
	})
	if len(top) > maxWordFeatures {
		top = top[:maxWordFeatures]
	}
	for _, w := range top {
		feats = append(feats, float64(counts[w])/float64(len(words))*10)
	}

	// Character-code padding up to the full width. The pad index trails
	// the current length by one; persisted embeddings depend on this
	// exact layout.
	codes := []rune(text)
	for len(feats) < FallbackDimensions {
		if len(codes) == 0 {
			feats = append(feats, 0.1)
			continue
		}
		idx := (len(feats) - 1) % len(codes)
		feats = append(feats, float64(codes[idx])/256*0.1)
	}
	return feats[:FallbackDimensions]
}

// normalize applies L2 normalization in place. A zero vector is left
// unchanged.
func normalize(vec []float64) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return
	}
	for i := range vec {
		vec[i] /= magnitude
	}
}

// randomVector is the degraded output when feature extraction fails.
func randomVector() []float64 {
	vec := make([]float64, FallbackDimensions)
	for i := range vec {
		vec[i] = rand.Float64() * 0.1 //nolint:gosec // math/rand is fine for degraded filler vectors
	}
	return vec
}
