// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for Prometheus metrics
instrumentation and structured request logging. These components work
alongside the session authentication middleware and the Chi middleware
factories in the api package to form the complete request processing stack.

Key Components:

  - Prometheus Metrics: HTTP request/response instrumentation
  - Request Logger: Per-request structured log entries with request IDs

Usage Example - Prometheus Metrics:

The metrics middleware uses the http.HandlerFunc style; the api package
bridges it into Chi's middleware chain:

	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Usage Example - Request Logger:

	r.Use(api.RequestIDWithLogging()) // request IDs first
	r.Use(middleware.RequestLogger()) // then per-request log entries

Performance Characteristics:

  - Metrics overhead: <0.1ms per request
  - Request logger overhead: one zerolog event per non-health request

Thread Safety:

All middleware components are thread-safe:
  - Prometheus metrics use atomic operations
  - Request logger state is per-request

See Also:

  - internal/auth: Session authentication middleware
  - internal/api: Chi router and middleware factories
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
