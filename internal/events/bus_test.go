package events

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()

	received := make(chan StatusChangedEvent, 1)
	unsub := bus.Subscribe(func(e StatusChangedEvent) {
		received <- e
	})
	defer unsub()

	bus.Publish(StatusChangedEvent{Status: "ok", Timestamp: time.Now().Format(time.RFC3339)})

	select {
	case e := <-received:
		if e.Status != "ok" {
			t.Errorf("received status = %q, want ok", e.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered within 1s")
	}
}

func TestBus_TypeIsolation(t *testing.T) {
	bus := New()

	var heartbeats atomic.Int32
	unsub := bus.Subscribe(func(e HeartbeatEvent) {
		heartbeats.Add(1)
	})
	defer unsub()

	bus.Publish(ActivityEvent{Source: "test"})
	bus.Publish(HeartbeatEvent{Source: "test"})

	time.Sleep(50 * time.Millisecond)

	if got := heartbeats.Load(); got != 1 {
		t.Errorf("heartbeat handler called %d times, want 1", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()

	var count atomic.Int32
	unsub := bus.Subscribe(func(e HeartbeatEvent) {
		count.Add(1)
	})

	bus.Publish(HeartbeatEvent{})
	time.Sleep(50 * time.Millisecond)
	unsub()
	bus.Publish(HeartbeatEvent{})
	time.Sleep(50 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("handler called %d times after unsubscribe, want 1", got)
	}
}

func TestBus_UnknownHandlerIsNoop(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(s string) {})
	// Must not panic and must return a callable unsubscriber.
	unsub()
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()

	ch := make(chan any, 2)
	unsub := SubscribeToChannel[PatternStartedEvent](bus, ch)
	defer unsub()

	bus.Publish(PatternStartedEvent{Kind: "pulse", Generation: 1})

	select {
	case raw := <-ch:
		e, ok := raw.(PatternStartedEvent)
		if !ok {
			t.Fatalf("received %T, want PatternStartedEvent", raw)
		}
		if e.Generation != 1 {
			t.Errorf("generation = %d, want 1", e.Generation)
		}
	case <-time.After(time.Second):
		t.Fatal("event not forwarded to channel within 1s")
	}
}
