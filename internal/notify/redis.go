package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster publishes events to a Redis channel so multiple server
// instances can share one admin notification stream. A background loop
// feeds received events into the local hub for SSE delivery.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
	hub     *Hub
}

func NewRedisBroadcaster(client *redis.Client, channel string, hub *Hub) *RedisBroadcaster {
	return &RedisBroadcaster{
		client:  client,
		channel: channel,
		hub:     hub,
	}
}

// Publish marshals the event onto the Redis channel. Errors are logged and
// swallowed: notification delivery must never fail a state transition.
func (b *RedisBroadcaster) Publish(ctx context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("notify: marshal event failed: %v", err)
		return
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		log.Printf("notify: redis publish failed: %v", err)
	}
}

// Run subscribes to the Redis channel and forwards events to the local hub
// until ctx is cancelled. Intended to run in its own goroutine.
func (b *RedisBroadcaster) Run(ctx context.Context) {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				log.Printf("notify: bad event payload: %v", err)
				continue
			}
			b.hub.Publish(ctx, e)
		}
	}
}
