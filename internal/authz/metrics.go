// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package authz

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts authorization decisions by role, resource
	// pattern, action, and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "resource_pattern", "action", "decision"},
	)

	// AuthzDeniedTotal tracks denials separately for alerting.
	AuthzDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Total number of authorization denials",
		},
		[]string{"role", "resource_pattern", "action"},
	)

	// AuthzDecisionDuration tracks enforcement latency.
	AuthzDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
		[]string{"role"},
	)
)

// RecordAuthzDecision records one enforcement outcome.
func RecordAuthzDecision(role, resource, action string, allowed bool, duration time.Duration) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}

	pattern := normalizeResourcePattern(resource)
	AuthzDecisionsTotal.WithLabelValues(role, pattern, action, decision).Inc()
	AuthzDecisionDuration.WithLabelValues(role).Observe(duration.Seconds())
	if !allowed {
		AuthzDeniedTotal.WithLabelValues(role, pattern, action).Inc()
	}
}

// normalizeResourcePattern collapses path parameters so metric labels stay
// low-cardinality: /api/v1/users/user_abc becomes /api/v1/users/*. Segments
// up to the resource name (/api/v1/users) and the literal "me" survive.
func normalizeResourcePattern(path string) string {
	segments := strings.Split(path, "/")
	if len(segments) <= 4 {
		return path
	}
	for i := 4; i < len(segments); i++ {
		if segments[i] != "" && segments[i] != "me" {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, "/")
}
