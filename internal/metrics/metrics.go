// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Profile store operations (Badger)
// - API endpoint latency and throughput
// - Profile sync pipeline metrics
// - Embedding generation
// - Similarity queries and cache efficiency
// - Apple Music API calls
// - Sessions and WebSocket connections

var (
	// Profile Store Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_store_op_duration_seconds",
			Help:    "Duration of profile store operations in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation"}, // "put", "get", "delete", "scan", "drop_partition"
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_op_errors_total",
			Help: "Total number of profile store operation errors",
		},
		[]string{"operation"},
	)

	StorePartitions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "profile_store_partitions",
			Help: "Current number of user partitions in the profile store",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Sync Pipeline Metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of profile sync operations in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}, // Two Apple API round trips plus embedding
		},
	)

	SyncTracksProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_tracks_processed_total",
			Help: "Total number of catalog tracks processed during profile syncs",
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of profile sync errors",
		},
		[]string{"error_type"}, // "apple_api", "no_tracks", "embedding", "storage", "other"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of last successful profile sync",
		},
	)

	ResyncRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resync_runs_total",
			Help: "Total number of background re-sync sweeps",
		},
	)

	ResyncUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resync_users_total",
			Help: "Total number of users processed by background re-sync",
		},
		[]string{"result"}, // "synced", "failed", "skipped"
	)

	// Embedding Metrics
	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_duration_seconds",
			Help:    "Duration of embedding generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"}, // "learned", "fallback"
	)

	EmbeddingsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embeddings_generated_total",
			Help: "Total number of embeddings generated",
		},
		[]string{"provider"},
	)

	EmbeddingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_fallbacks_total",
			Help: "Total number of times the fallback embedder degraded to random output",
		},
	)

	// Similarity Metrics
	SimilarityQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_query_duration_seconds",
			Help:    "Duration of similar-user queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SimilarityCandidatesScanned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_candidates_scanned",
			Help:    "Number of candidate profiles scanned per similar-user query",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	SimilarityComparisons = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "similarity_comparisons_total",
			Help: "Total number of pairwise profile comparisons",
		},
	)

	// Apple Music API Metrics
	AppleAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "apple_api_request_duration_seconds",
			Help:    "Duration of Apple Music API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"}, // "recent_tracks", "catalog_songs"
	)

	AppleAPIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apple_api_errors_total",
			Help: "Total number of Apple Music API errors",
		},
		[]string{"endpoint", "status_code"},
	)

	DevTokenGenerations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "developer_token_generations_total",
			Help: "Total number of Apple developer tokens minted (cache misses)",
		},
	)

	// Session Metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of active sessions",
		},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total number of sessions created via login",
		},
	)

	SessionValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_validations_total",
			Help: "Total number of session validation attempts",
		},
		[]string{"result"}, // "valid", "expired", "missing", "invalid"
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "similarity", "devtoken"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the in-process bus",
		},
		[]string{"topic"},
	)

	EventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_errors_total",
			Help: "Total number of event publish failures",
		},
		[]string{"topic"},
	)

	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_delivered_total",
			Help: "Total number of events delivered to subscribers",
		},
		[]string{"topic"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordStoreOp records a profile store operation metric
func RecordStoreOp(operation string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSyncOperation records a profile sync metric
func RecordSyncOperation(duration time.Duration, tracksProcessed int, err error) {
	SyncDuration.Observe(duration.Seconds())
	SyncTracksProcessed.Add(float64(tracksProcessed))
	if err != nil {
		errorType := "other"
		errorMsg := err.Error()
		switch {
		case strings.Contains(errorMsg, "no recent tracks"):
			errorType = "no_tracks"
		case strings.Contains(errorMsg, "apple music"):
			errorType = "apple_api"
		case strings.Contains(errorMsg, "embedding"):
			errorType = "embedding"
		case strings.Contains(errorMsg, "storage"):
			errorType = "storage"
		}
		SyncErrors.WithLabelValues(errorType).Inc()
	} else {
		// Update last success timestamp
		SyncLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEmbedding records embedding generation by provider
func RecordEmbedding(provider string, duration time.Duration) {
	EmbeddingDuration.WithLabelValues(provider).Observe(duration.Seconds())
	EmbeddingsGenerated.WithLabelValues(provider).Inc()
}

// RecordSimilarityQuery records a similar-user query
func RecordSimilarityQuery(duration time.Duration, candidatesScanned int) {
	SimilarityQueryDuration.Observe(duration.Seconds())
	SimilarityCandidatesScanned.Observe(float64(candidatesScanned))
	SimilarityComparisons.Add(float64(candidatesScanned))
}

// RecordAppleAPIRequest records an Apple Music API call
func RecordAppleAPIRequest(endpoint string, statusCode string, duration time.Duration, failed bool) {
	AppleAPIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if failed {
		AppleAPIErrors.WithLabelValues(endpoint, statusCode).Inc()
	}
}

// RecordSessionValidation records a session validation attempt
func RecordSessionValidation(result string) {
	SessionValidations.WithLabelValues(result).Inc()
}

// RecordCacheHit records a cache hit for the named cache
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss for the named cache
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordEventPublished records an event publish and its outcome
func RecordEventPublished(topic string, err error) {
	if err != nil {
		EventPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}
