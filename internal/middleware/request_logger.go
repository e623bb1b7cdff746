// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/concentus/internal/logging"
)

// RequestLogger returns a Chi middleware that logs every completed request
// with its method, path, status, and duration. The logger is taken from the
// request context so entries carry the request and correlation IDs set by
// the request ID middleware.
//
// Health probes and the metrics endpoint are skipped: monitors poll them
// every few seconds and the entries would drown everything else.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipRequestLog(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapper := &metricsResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapper, r)

			event := logging.Ctx(r.Context()).Info()
			if wrapper.statusCode >= http.StatusInternalServerError {
				event = logging.Ctx(r.Context()).Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("Request completed")
		})
	}
}

// skipRequestLog reports whether a path is excluded from request logging.
func skipRequestLog(path string) bool {
	return strings.HasPrefix(path, "/api/v1/health") || path == "/metrics"
}
