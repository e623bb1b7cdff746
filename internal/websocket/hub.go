// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

// Package websocket pushes profile and resync notifications to connected
// browsers. A single Hub owns the client set; the event router feeds it
// through the Broadcast helpers, and the api package upgrades connections and
// registers clients. Slow clients are dropped rather than allowed to stall
// the broadcast loop.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/concentus/internal/events"
	"github.com/tomtom215/concentus/internal/logging"
	"github.com/tomtom215/concentus/internal/metrics"
)

// Message types pushed to clients.
const (
	MessageTypePing            = "ping"
	MessageTypePong            = "pong"
	MessageTypeProfileUpdated  = "profile_updated"
	MessageTypeResyncCompleted = "resync_completed"
)

// Message is the wire envelope for every hub push.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub maintains the set of active clients and fans broadcast messages out to
// them. Register, Unregister and the broadcast queue are all serviced by Run;
// the mutex only guards the direct reads (ClientCount).
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub. Call Run to start servicing clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run services client lifecycle and broadcast events until ctx is cancelled,
// then closes every client and returns ctx.Err(). Designed to run under the
// supervision tree.
//
// Lifecycle events are drained before each broadcast so the client set is
// consistent when a message fans out, regardless of which channels are ready
// at the same instant.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("Websocket client disconnected")
}

// broadcastToClients queues a message on every client in ID order. Clients
// whose send buffer is full are dropped; their writePump has stalled and
// waiting on it would block every other client.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("client_slow").Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("Dropping slow websocket client")
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// shutdown closes all clients and logs the reason. Context cancellation is
// the expected stop path, so nothing here is logged at error level.
func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("Websocket hub stopped")
}

// BroadcastProfileUpdated pushes a profile_updated message to all clients.
func (h *Hub) BroadcastProfileUpdated(event events.ProfileUpdated) {
	h.enqueue(Message{Type: MessageTypeProfileUpdated, Data: event})
}

// BroadcastResyncCompleted pushes a resync_completed message to all clients.
func (h *Hub) BroadcastResyncCompleted(event events.ResyncCompleted) {
	h.enqueue(Message{Type: MessageTypeResyncCompleted, Data: event})
}

// BroadcastJSON pushes an arbitrary typed payload to all clients.
func (h *Hub) BroadcastJSON(messageType string, data any) {
	h.enqueue(Message{Type: messageType, Data: data})
}

// enqueue hands a message to the Run loop without blocking the caller. When
// the queue is full the message is dropped; every notification can be
// reconstructed from the store, so losing one is harmless.
func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_full").Inc()
		logging.Warn().Str("message_type", message.Type).Msg("Broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
