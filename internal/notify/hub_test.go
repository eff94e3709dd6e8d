package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	e := Event{Type: EventRequestCreated, BookingID: "b1"}
	hub.Publish(context.Background(), e)

	select {
	case got := <-ch:
		assert.Equal(t, EventRequestCreated, got.Type)
		assert.Equal(t, "b1", got.BookingID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(ch)
	assert.Equal(t, 0, hub.SubscriberCount())

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	// Double unsubscribe must not panic.
	hub.Unsubscribe(ch)
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	// Fill the buffer and keep publishing; Publish must return promptly.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish(context.Background(), Event{Type: EventRequestDecided})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHubPublishWithNoSubscribers(t *testing.T) {
	hub := NewHub()
	// Must be a no-op, not an error or panic.
	hub.Publish(context.Background(), Event{Type: EventRequestCreated})
}
