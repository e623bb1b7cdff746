// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements comprehensive application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Profile store (Badger) operation performance
  - Profile sync pipeline statistics
  - Embedding generation by provider
  - Similarity query performance and cache efficiency
  - Apple Music API call latency and errors
  - Session lifecycle counts
  - Circuit breaker state transitions
  - WebSocket connection counts
  - In-process event bus throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:4440/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Profile Store Metrics:
  - profile_store_op_duration_seconds: Store operation time (histogram)
    Labels: operation (put, get, delete, scan, drop_partition)
  - profile_store_op_errors_total: Failed store operations (counter)
    Labels: operation
  - profile_store_partitions: User partitions in the store (gauge)

Sync Metrics:
  - sync_duration_seconds: Profile sync duration (histogram)
  - sync_tracks_processed_total: Catalog tracks processed (counter)
  - sync_errors_total: Failed syncs (counter)
    Labels: error_type (apple_api, no_tracks, embedding, storage, other)
  - sync_last_success_timestamp: Unix timestamp of last successful sync (gauge)
  - resync_runs_total: Background re-sync sweeps (counter)
  - resync_users_total: Users processed by re-sync (counter)
    Labels: result (synced, failed, skipped)

Embedding Metrics:
  - embedding_duration_seconds: Embedding generation time (histogram)
    Labels: provider (learned, fallback)
  - embeddings_generated_total: Embeddings produced (counter)
    Labels: provider
  - embedding_fallbacks_total: Learned-provider failures handled by fallback (counter)

Similarity Metrics:
  - similarity_query_duration_seconds: Similar-user query time (histogram)
  - similarity_candidates_scanned: Candidates scanned per query (histogram)
  - similarity_comparisons_total: Pairwise comparisons performed (counter)

Apple Music Metrics:
  - apple_api_request_duration_seconds: Apple API call time (histogram)
    Labels: endpoint (recent_tracks, catalog_songs)
  - apple_api_errors_total: Apple API errors (counter)
    Labels: endpoint, status_code
  - developer_token_generations_total: Developer tokens minted (counter)

Session Metrics:
  - sessions_active: Active sessions (gauge)
  - sessions_created_total: Sessions created via login (counter)
  - session_validations_total: Validation attempts (counter)
    Labels: result (valid, expired, missing, invalid)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through breaker (counter)
    Labels: name, result
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

# Usage Example

Recording in application code:

	start := time.Now()
	doc, err := store.Get(ctx, partition, docID)
	metrics.RecordStoreOp("get", time.Since(start), err)

Exposing in the router:

	r.Handle("/metrics", promhttp.Handler())

# Metric Naming

Metric names follow the Prometheus conventions:
  - Counters end in _total
  - Durations are in seconds with a _seconds suffix
  - Labels are low-cardinality (operation names, providers, endpoints)

User IDs never appear as label values.
*/
package metrics
