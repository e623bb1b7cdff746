// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package embedding

import (
	"context"
	"fmt"

	"github.com/tomtom215/concentus/internal/config"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI   = "openai"
	ProviderFallback = "fallback"
)

// Metric label values for the embedding metrics.
const (
	labelLearned  = "learned"
	labelFallback = "fallback"
)

// Provider generates embedding vectors for profile texts. All vectors
// from one provider have the same length, reported by Dimensions.
type Provider interface {
	// Embed generates a vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates vectors for multiple texts, index-aligned
	// with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the vector length this provider produces.
	Dimensions() int
}

// NewProvider selects the embedding provider from configuration. The
// selection is fixed for the process lifetime; there is no per-call
// fallback from the learned provider to the deterministic one.
func NewProvider(cfg config.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderFallback:
		return NewFallback(), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
