// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
)

// closeTimeout bounds how long Close waits for in-flight handlers.
const closeTimeout = 15 * time.Second

// Router dispatches bus events to named consumer handlers. Handlers for the
// same topic each get their own subscription, so all of them see every event.
// Run blocks until the context is cancelled, which makes the router directly
// supervisable.
type Router struct {
	router     *message.Router
	subscriber message.Subscriber
}

// NewRouter creates a router reading from the given subscriber, normally
// Bus.Subscriber(). Panicking handlers are recovered and logged.
func NewRouter(subscriber message.Subscriber) (*Router, error) {
	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: closeTimeout,
	}, NewLoggerAdapter())
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	return &Router{
		router:     wmRouter,
		subscriber: subscriber,
	}, nil
}

// OnProfileUpdated registers a handler for profile.updated events. The name
// must be unique across all handlers.
func (r *Router) OnProfileUpdated(name string, fn func(context.Context, ProfileUpdated) error) {
	r.router.AddConsumerHandler(name, TopicProfileUpdated, r.subscriber, consume(name, TopicProfileUpdated, fn))
}

// OnResyncCompleted registers a handler for resync.completed events. The name
// must be unique across all handlers.
func (r *Router) OnResyncCompleted(name string, fn func(context.Context, ResyncCompleted) error) {
	r.router.AddConsumerHandler(name, TopicResyncCompleted, r.subscriber, consume(name, TopicResyncCompleted, fn))
}

// consume adapts a typed event handler to a watermill consumer. Events are
// always acked: an undecodable payload cannot be fixed by redelivery, and a
// failed handler must not stall the other subscribers behind it.
func consume[T any](name, topic string, fn func(context.Context, T) error) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var event T
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			logging.Error().
				Err(err).
				Str("handler", name).
				Str("topic", topic).
				Str("message_uuid", msg.UUID).
				Msg("Dropping undecodable event")
			return nil
		}

		if err := fn(msg.Context(), event); err != nil {
			logging.Error().
				Err(err).
				Str("handler", name).
				Str("topic", topic).
				Msg("Event handler failed")
			return nil
		}

		metrics.EventsDelivered.WithLabelValues(topic).Inc()
		return nil
	}
}

// Run starts all registered handlers and blocks until ctx is cancelled or the
// router is closed.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel that closes once all handlers are subscribed.
// Publish only after this to guarantee handlers observe the event.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting up to the close timeout for in-flight
// handlers to finish.
func (r *Router) Close() error {
	return r.router.Close()
}
