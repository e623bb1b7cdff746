// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/metrics"
)

// OpenAI generates embeddings from an OpenAI-compatible endpoint.
// Any provider speaking the /embeddings wire format works by pointing
// embedding.openai_base_url at it.
type OpenAI struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewOpenAI creates the learned embedding provider.
func NewOpenAI(cfg config.EmbeddingConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenAI{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.OpenAIModel,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector for a single text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return vectors[0], nil
}

// EmbedBatch generates vectors for multiple texts in one request.
// Failures surface to the caller unchanged; the sync pipeline treats
// them as hard errors rather than degrading to the fallback embedder.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts provided for embedding")
	}

	start := time.Now()
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(o.model),
		Dimensions: o.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}

	vectors := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		vec := make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}

	metrics.EmbeddingDuration.WithLabelValues(labelLearned).Observe(time.Since(start).Seconds())
	metrics.EmbeddingsGenerated.WithLabelValues(labelLearned).Add(float64(len(vectors)))

	return vectors, nil
}

// Dimensions returns the configured vector length.
func (o *OpenAI) Dimensions() int {
	return o.dimensions
}
