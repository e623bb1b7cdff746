// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/tomtom215/concentus/internal/config"
	"github.com/tomtom215/concentus/internal/metrics"
)

// DefaultBufferSize is the per-subscriber channel buffer used when the
// configuration does not set one. Publishing blocks once a subscriber falls
// this many events behind.
const DefaultBufferSize = 64

// Bus is the process-wide event bus. It wraps a watermill gochannel pub/sub:
// every subscriber receives every event published on its topic, and nothing
// is retained for subscribers that attach later.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus with the configured subscriber buffer.
func NewBus(cfg config.EventsConfig) *Bus {
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(buffer),
	}, NewLoggerAdapter())

	return &Bus{pubsub: pubsub}
}

// PublishProfileUpdated publishes a profile.updated event.
func (b *Bus) PublishProfileUpdated(ctx context.Context, event ProfileUpdated) error {
	return b.publish(ctx, TopicProfileUpdated, event)
}

// PublishResyncCompleted publishes a resync.completed event.
func (b *Bus) PublishResyncCompleted(ctx context.Context, event ResyncCompleted) error {
	return b.publish(ctx, TopicResyncCompleted, event)
}

func (b *Bus) publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordEventPublished(topic, err)
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)

	err = b.pubsub.Publish(topic, msg)
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe returns a channel of raw messages for the topic. The channel is
// closed when ctx is cancelled or the bus closes.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Subscriber exposes the native watermill subscriber for router wiring.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publisher exposes the native watermill publisher.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Close shuts the bus down. Pending subscriber channels are closed and
// further publishes fail.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
