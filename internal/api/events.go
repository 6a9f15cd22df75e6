package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/lightnode/internal/events"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of inbound events and pattern lifecycle",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"heartbeat":        events.HeartbeatEvent{},
		"announcement":     events.AnnouncementEvent{},
		"status-changed":   events.StatusChangedEvent{},
		"activity":         events.ActivityEvent{},
		"pattern-request":  events.PatternRequestEvent{},
		"pattern-started":  events.PatternStartedEvent{},
		"pattern-finished": events.PatternFinishedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.HeartbeatEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.AnnouncementEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.StatusChangedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.ActivityEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.PatternRequestEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.PatternStartedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.PatternFinishedEvent](s.bus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Connection confirmation so clients see the stream is live.
		if err := send.Data(events.StatusChangedEvent{
			Status:    "active",
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
