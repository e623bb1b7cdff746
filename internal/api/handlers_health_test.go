// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/concentus/internal/applemusic"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/docstore"
)

func TestHealth_Healthy(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	env.handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data := dataMap(t, decodeResponse(t, w))
	if data["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", data["status"])
	}
	if data["store_connected"] != true {
		t.Errorf("Expected store_connected true, got %v", data["store_connected"])
	}
	if data["apple_token_valid"] != true {
		t.Errorf("Expected apple_token_valid true, got %v", data["apple_token_valid"])
	}
	if data["mode"] != "fallback" {
		t.Errorf("Expected mode 'fallback', got %v", data["mode"])
	}
	if data["version"] != "1.0.0" {
		t.Errorf("Expected version '1.0.0', got %v", data["version"])
	}
	uptime, ok := data["uptime"].(float64)
	if !ok || uptime < 0 {
		t.Errorf("Expected non-negative uptime, got %v", data["uptime"])
	}
}

func TestHealth_DegradedWithoutStore(t *testing.T) {
	env := newTestEnv(t, nil)
	env.handler.store = nil

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	env.handler.Health(w, req)

	// Health reports degradation in the payload, never with an error code:
	// a degraded service is still serving.
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data := dataMap(t, decodeResponse(t, w))
	if data["status"] != "degraded" {
		t.Errorf("Expected status 'degraded', got %v", data["status"])
	}
	if data["store_connected"] != false {
		t.Errorf("Expected store_connected false, got %v", data["store_connected"])
	}
}

func TestHealth_DegradedWithBadSigningKey(t *testing.T) {
	env := newTestEnv(t, nil)
	env.handler.tokens = applemusic.NewTokenSource(config.AppleConfig{
		TeamID:     "TEAM123456",
		KeyID:      "KEY9876543",
		PrivateKey: "garbage",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	env.handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data := dataMap(t, decodeResponse(t, w))
	if data["status"] != "degraded" {
		t.Errorf("Expected status 'degraded', got %v", data["status"])
	}
	if data["apple_token_valid"] != false {
		t.Errorf("Expected apple_token_valid false, got %v", data["apple_token_valid"])
	}
}

func TestHealth_ReportsProviderMode(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Embedding.Provider = "openai"
	env := newTestEnv(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	env.handler.Health(w, req)

	data := dataMap(t, decodeResponse(t, w))
	if data["mode"] != "openai" {
		t.Errorf("Expected mode 'openai', got %v", data["mode"])
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	env.handler.Health(w, req)

	assertErrorCode(t, w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	w := httptest.NewRecorder()
	env.handler.HealthLive(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data := dataMap(t, decodeResponse(t, w))
	if data["alive"] != true {
		t.Errorf("Expected alive true, got %v", data["alive"])
	}
}

func TestHealthLive_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/health/live", nil)
	w := httptest.NewRecorder()
	env.handler.HealthLive(w, req)

	assertErrorCode(t, w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestHealthReady_Ready(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()
	env.handler.HealthReady(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if resp.Status != "ready" {
		t.Errorf("Expected status 'ready', got %q", resp.Status)
	}
	data := dataMap(t, resp)
	if data["ready_to_serve"] != true {
		t.Errorf("Expected ready_to_serve true, got %v", data["ready_to_serve"])
	}
}

func TestHealthReady_StoreClosed(t *testing.T) {
	env := newTestEnv(t, nil)

	closed, err := docstore.Open(config.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := closed.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	env.handler.store = closed

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()
	env.handler.HealthReady(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if resp.Status != "not_ready" {
		t.Errorf("Expected status 'not_ready', got %q", resp.Status)
	}
	data := dataMap(t, resp)
	if data["store_connected"] != false {
		t.Errorf("Expected store_connected false, got %v", data["store_connected"])
	}
	if data["ready_to_serve"] != false {
		t.Errorf("Expected ready_to_serve false, got %v", data["ready_to_serve"])
	}
}

func TestHealthReady_NoTokenSource(t *testing.T) {
	env := newTestEnv(t, nil)
	env.handler.tokens = nil

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	w := httptest.NewRecorder()
	env.handler.HealthReady(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d: %s", w.Code, w.Body.String())
	}

	data := dataMap(t, decodeResponse(t, w))
	if data["apple_token_valid"] != false {
		t.Errorf("Expected apple_token_valid false, got %v", data["apple_token_valid"])
	}
}
