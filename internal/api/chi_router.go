// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/concentus/internal/auth"
	"github.com/tomtom215/concentus/internal/authz"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler           *Handler
	chiMiddleware     *ChiMiddleware
	sessionMiddleware *auth.SessionMiddleware
	authzMiddleware   *authz.Middleware
}

// NewRouter creates a router over the given handler and middleware. The Chi
// middleware stack (CORS, rate limits) is derived from the security
// configuration; a nil config falls back to locked-down defaults.
func NewRouter(handler *Handler, sessionMW *auth.SessionMiddleware, authzMW *authz.Middleware, cfg *config.Config) *Router {
	var cm *ChiMiddleware
	if cfg != nil {
		cm = NewChiMiddlewareFromSecurity(cfg.Security)
	} else {
		cm = NewChiMiddleware(nil)
	}

	return &Router{
		handler:           handler,
		chiMiddleware:     cm,
		sessionMiddleware: sessionMW,
		authzMiddleware:   authzMW,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our existing middleware to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(middleware.RequestLogger())  // Structured request logging
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoints
	// ========================
	// Permissive rate limiting: allows frequent monitoring while preventing abuse
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Authentication Endpoints
	// ========================
	// Strict rate limiting for auth endpoints (brute force prevention).
	// Authenticate resolves a session when one is presented so logout can
	// find it, but nothing here requires one: developer-token and login must
	// stay reachable for clients that are not logged in yet.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Use(router.sessionMiddleware.Authenticate)

		r.Get("/developer-token", router.handler.DeveloperToken)

		// Login has strictest rate limiting (5 attempts per 5 minutes)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)

		r.Post("/logout", router.handler.Logout)
	})

	// ========================
	// Core API Endpoints
	// ========================
	// Every data endpoint requires a session; Casbin decides what the
	// session's role may do with it.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(router.sessionMiddleware.Authenticate)
		r.Use(router.sessionMiddleware.RequireAuth)
		r.Use(router.authzMiddleware.Authorize)

		// Sync is resource intensive (Apple Music + embedding provider)
		r.With(router.chiMiddleware.RateLimitSync()).Post("/sync", router.handler.TriggerSync)
		r.Get("/sync/status", router.handler.SyncStatus)

		r.Get("/profile", router.handler.Profile)
		r.Get("/profile/{userID}", router.handler.ProfileByID)
		r.Get("/profiles", router.handler.ProfilesAll)

		r.Get("/similar", router.handler.Similar)
		r.Get("/compare/{otherUserID}", router.handler.Compare)

		r.Get("/users", router.handler.UsersList)
		r.Patch("/users/me", router.handler.UpdateDisplayName)
		r.Get("/users/{userID}", router.handler.UserDetails)
		r.Delete("/users/{userID}", router.handler.DeleteUser)

		r.Get("/ws", router.handler.WebSocket)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
