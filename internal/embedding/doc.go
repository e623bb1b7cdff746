// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package embedding generates vector embeddings for profile texts.
//
// Two providers implement the Provider interface, selected once at
// startup via embedding.provider:
//
//   - "openai": any OpenAI-compatible embeddings endpoint through
//     sashabaranov/go-openai (OpenAI, Ollama, vLLM and friends via
//     embedding.openai_base_url). Dimensions follow the configuration,
//     default 384.
//   - "fallback": a deterministic 128-dimensional feature embedder that
//     needs no network or model. It keys off the exact text layout the
//     profile builder emits, so its output is stable across restarts
//     and compatible with embeddings persisted by earlier deployments.
//
// The choice is a deployment decision. A failing learned provider
// surfaces its error to the caller and fails the sync; it never
// silently swaps in the fallback, because mixing 384- and 128-dim
// vectors in one deployment would zero out similarity scores between
// users embedded by different providers.
package embedding
