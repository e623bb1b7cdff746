// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package services

import (
	"context"
)

// MessageRouter interface matches *events.Router's Run method.
//
// This interface allows the EventRouterService to work with the router
// without importing the events package, avoiding circular dependencies.
//
// Satisfied by *events.Router from internal/events/router.go:
//   - Run(ctx context.Context) error
type MessageRouter interface {
	Run(ctx context.Context) error
}

// EventRouterService wraps the watermill event router as a supervised service.
//
// The router's Run method already implements the suture.Service pattern,
// so this wrapper simply delegates to it and provides a name for logging.
//
// Example usage:
//
//	router, _ := events.NewRouter(bus.Subscriber())
//	svc := services.NewEventRouterService(router)
//	tree.AddMessagingService(svc)
type EventRouterService struct {
	router MessageRouter
	name   string
}

// NewEventRouterService creates a new event router service wrapper.
func NewEventRouterService(router MessageRouter) *EventRouterService {
	return &EventRouterService{
		router: router,
		name:   "event-router",
	}
}

// Serve implements suture.Service.
//
// This method delegates to router.Run which:
//  1. Dispatches bus messages to the registered handlers
//  2. Returns when the context is canceled
//  3. Drains in-flight handlers on shutdown
func (e *EventRouterService) Serve(ctx context.Context) error {
	return e.router.Run(ctx)
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (e *EventRouterService) String() string {
	return e.name
}
