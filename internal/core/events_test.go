package core

import (
	"sync"
	"testing"
	"time"
)

// TestEventBusPublish verifies handlers only see the event types they
// subscribed to, in registration order.
func TestEventBusPublish(t *testing.T) {
	bus := NewEventBus()

	var got []string
	bus.Subscribe(EventClientConnected, func(e Event) {
		got = append(got, "first")
	})
	bus.Subscribe(EventClientConnected, func(e Event) {
		got = append(got, "second")
	})
	bus.Subscribe(EventClientDisconnected, func(e Event) {
		t.Error("disconnect handler fired for a connect event")
	})

	bus.Publish(Event{Type: EventClientConnected, Payload: ClientPayload{Active: 1}})

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("handlers fired = %v, want [first second]", got)
	}
}

// TestEventBusPublishNoSubscribers verifies publishing with no
// subscribers is a no-op rather than a panic.
func TestEventBusPublishNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(Event{Type: EventConfigReloaded})
}

// TestEventBusPayload verifies the payload arrives intact.
func TestEventBusPayload(t *testing.T) {
	bus := NewEventBus()

	var got ClientPayload
	bus.Subscribe(EventClientDisconnected, func(e Event) {
		p, ok := e.Payload.(ClientPayload)
		if !ok {
			t.Fatalf("payload type %T, want ClientPayload", e.Payload)
		}
		got = p
	})

	bus.Publish(Event{Type: EventClientDisconnected, Payload: ClientPayload{Active: 7}})
	if got.Active != 7 {
		t.Errorf("Active = %d, want 7", got.Active)
	}
}

// TestEventBusPublishAsync verifies every handler runs, eventually.
func TestEventBusPublishAsync(t *testing.T) {
	bus := NewEventBus()

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		bus.Subscribe(EventConfigReloaded, func(Event) {
			wg.Done()
		})
	}

	bus.PublishAsync(Event{Type: EventConfigReloaded})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handlers did not all run")
	}
}
