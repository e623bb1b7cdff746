// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/logging"
)

// okHandler is the innermost handler for middleware tests.
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestDefaultChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()

	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("Expected no default CORS origins, got %v", cfg.CORSAllowedOrigins)
	}

	hasPatch := false
	for _, m := range cfg.CORSAllowedMethods {
		if m == http.MethodPatch {
			hasPatch = true
		}
	}
	if !hasPatch {
		t.Errorf("Expected PATCH in allowed methods, got %v", cfg.CORSAllowedMethods)
	}

	hasSessionHeader := false
	for _, h := range cfg.CORSAllowedHeaders {
		if h == auth.SessionHeader {
			hasSessionHeader = true
		}
	}
	if !hasSessionHeader {
		t.Errorf("Expected %s in allowed headers, got %v", auth.SessionHeader, cfg.CORSAllowedHeaders)
	}

	if cfg.CORSMaxAge != 86400 {
		t.Errorf("Expected CORS max age 86400, got %d", cfg.CORSMaxAge)
	}
	if cfg.RateLimitRequests != RateLimitAPI.Requests {
		t.Errorf("Expected default rate limit %d, got %d", RateLimitAPI.Requests, cfg.RateLimitRequests)
	}
	if cfg.RateLimitDisabled {
		t.Error("Expected rate limiting enabled by default")
	}
}

func TestNewChiMiddleware_NilConfig(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(nil)
	if m.config == nil {
		t.Fatal("Expected defaults for nil config")
	}
	if m.config.CORSMaxAge != 86400 {
		t.Errorf("Expected default max age, got %d", m.config.CORSMaxAge)
	}
}

func TestNewChiMiddlewareFromSecurity(t *testing.T) {
	t.Parallel()

	m := NewChiMiddlewareFromSecurity(config.SecurityConfig{
		CORSOrigins:       []string{"https://music.example.com"},
		RateLimitReqs:     42,
		RateLimitWindow:   2 * time.Minute,
		RateLimitDisabled: true,
	})

	if len(m.config.CORSAllowedOrigins) != 1 || m.config.CORSAllowedOrigins[0] != "https://music.example.com" {
		t.Errorf("Expected configured CORS origins, got %v", m.config.CORSAllowedOrigins)
	}
	if m.config.RateLimitRequests != 42 {
		t.Errorf("Expected rate limit 42, got %d", m.config.RateLimitRequests)
	}
	if m.config.RateLimitWindow != 2*time.Minute {
		t.Errorf("Expected 2m window, got %v", m.config.RateLimitWindow)
	}
	if !m.config.RateLimitDisabled {
		t.Error("Expected rate limiting disabled")
	}
}

func TestRateLimit_Enforced(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 3
	cfg.RateLimitWindow = time.Minute
	m := NewChiMiddleware(cfg)

	handler := m.RateLimit()(okHandler)

	// httptest requests share a RemoteAddr, so they count against one key.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected request %d to pass, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429 after limit, got %d", w.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitDisabled = true
	m := NewChiMiddleware(cfg)

	handler := m.RateLimit()(okHandler)

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected disabled limiter to pass request %d, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitCustom_Enforced(t *testing.T) {
	t.Parallel()

	m := NewChiMiddleware(DefaultChiMiddlewareConfig())
	handler := m.RateLimitCustom(RateLimitConfig{Requests: 2, Window: time.Minute})(okHandler)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected request %d to pass, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429 after limit, got %d", w.Code)
	}
}

func TestRateLimitCustom_Disabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	m := NewChiMiddleware(cfg)

	handler := m.RateLimitLogin()(okHandler)

	for i := 0; i < RateLimitLogin.Requests*2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected disabled limiter to pass request %d, got %d", i+1, w.Code)
		}
	}
}

func TestEndpointRateLimits(t *testing.T) {
	t.Parallel()

	// Login is the strictest surface, health the loosest.
	if RateLimitLogin.Requests > RateLimitAuth.Requests {
		t.Error("Expected login limit at or below auth limit")
	}
	if RateLimitLogin.Window < RateLimitAuth.Window {
		t.Error("Expected login window at or above auth window")
	}
	if RateLimitSync.Requests >= RateLimitAPI.Requests {
		t.Error("Expected sync limit below the general API limit")
	}
	if RateLimitHealth.Requests <= RateLimitAPI.Requests {
		t.Error("Expected health limit above the general API limit")
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(okHandler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/users", nil))

	headers := w.Header()
	if headers.Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("Expected nosniff, got %q", headers.Get("X-Content-Type-Options"))
	}
	if headers.Get("X-Frame-Options") != "DENY" {
		t.Errorf("Expected DENY, got %q", headers.Get("X-Frame-Options"))
	}
	if headers.Get("Referrer-Policy") != "strict-origin-when-cross-origin" {
		t.Errorf("Expected strict referrer policy, got %q", headers.Get("Referrer-Policy"))
	}
	if headers.Get("Strict-Transport-Security") != "" {
		t.Error("Expected no HSTS over plain HTTP")
	}
}

func TestAPISecurityHeaders_HSTS(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(okHandler)
	const wantHSTS = "max-age=31536000; includeSubDomains"

	// Direct TLS: httptest fabricates a TLS connection state for https targets.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "https://example.com/api/v1/users", nil))
	if got := w.Header().Get("Strict-Transport-Security"); got != wantHSTS {
		t.Errorf("Expected HSTS over TLS, got %q", got)
	}

	// TLS terminated upstream: the proxy forwards the original scheme.
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/users", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("Strict-Transport-Security"); got != wantHSTS {
		t.Errorf("Expected HSTS behind TLS proxy, got %q", got)
	}
}

func TestRequestIDWithLogging_GeneratesID(t *testing.T) {
	var gotRequestID, gotCorrelationID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = logging.RequestIDFromContext(r.Context())
		gotCorrelationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestIDWithLogging()(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if gotRequestID == "" {
		t.Error("Expected generated request ID in context")
	}
	if gotCorrelationID == "" {
		t.Error("Expected correlation ID in context")
	}
	if req.Header.Get("X-Request-ID") != gotRequestID {
		t.Errorf("Expected header and context to agree, header %q context %q",
			req.Header.Get("X-Request-ID"), gotRequestID)
	}
}

func TestRequestIDWithLogging_PreservesIncomingID(t *testing.T) {
	var gotRequestID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := RequestIDWithLogging()(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "upstream-trace-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if gotRequestID != "upstream-trace-42" {
		t.Errorf("Expected upstream request ID preserved, got %q", gotRequestID)
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://music.example.com"}
	m := NewChiMiddleware(cfg)

	handler := m.CORS()(okHandler)

	// Allowed origin gets the CORS grant on preflight.
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sync", nil)
	req.Header.Set("Origin", "https://music.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://music.example.com" {
		t.Errorf("Expected origin grant, got %q", got)
	}

	// Unknown origins get no grant.
	req = httptest.NewRequest(http.MethodOptions, "/api/v1/sync", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no grant for unknown origin, got %q", got)
	}
}

func TestCORS_WildcardOrigin(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"*"}
	m := NewChiMiddleware(cfg)

	handler := m.CORS()(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard grant, got %q", got)
	}
}
