// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

/*
Package services provides suture.Service wrappers for Concentus components.

This package adapts existing application components to the suture v4
supervision model, translating various lifecycle patterns (Start/Stop, Run,
ListenAndServe) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation (Start/Stop to Serve pattern)
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Resync Manager (ResyncService):
  - Wraps syncer.Manager with Start/Stop lifecycle
  - Drives the periodic Apple Music profile refresh
  - Start failures propagate for supervised restart

Event Router (EventRouterService):
  - Wraps events.Router with context support
  - Dispatches profile and resync events to handlers
  - Drains in-flight handlers on shutdown

WebSocket Hub (WebSocketHubService):
  - Wraps websocket.Hub with context support
  - Handles client connection cleanup on shutdown

# Design Notes

The wrappers depend on small local interfaces (HTTPServer, StartStopManager,
MessageRouter, ContextHub) rather than the concrete packages. This keeps the
supervision layer import-free of application packages and makes every wrapper
testable with in-package mocks.

Error semantics follow suture's restart rules: a wrapper returns an error
when its component fails (triggering restart with backoff) and returns
ctx.Err() on orderly shutdown (no restart).
*/
package services
