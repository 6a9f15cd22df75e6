package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for in-process event
// broadcasting between the inbound adapters, the router and the engine.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(HeartbeatEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event dispatches on the concrete type, so each variant
	// goes through the generic Publish with its own type argument.
	switch e := ev.(type) {
	case HeartbeatEvent:
		event.Publish(b.dispatcher, e)
	case AnnouncementEvent:
		event.Publish(b.dispatcher, e)
	case StatusChangedEvent:
		event.Publish(b.dispatcher, e)
	case ActivityEvent:
		event.Publish(b.dispatcher, e)
	case PatternRequestEvent:
		event.Publish(b.dispatcher, e)
	case PatternStartedEvent:
		event.Publish(b.dispatcher, e)
	case PatternFinishedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler's
// parameter type determines which events it receives. Returns an
// unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e HeartbeatEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(HeartbeatEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(AnnouncementEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StatusChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ActivityEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PatternRequestEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PatternStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(PatternFinishedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// Unknown handler signature, nothing will be delivered.
		return func() {}
	}
}
