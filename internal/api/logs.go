package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/logging"
)

// LogHistoryResponse returns the captured log history.
type LogHistoryResponse struct {
	Body struct {
		Entries []logging.Entry `json:"entries" doc:"Recent log entries, oldest first"`
	}
}

// registerLogRoutes registers log history and streaming endpoints.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Log History",
		Description: "Get recent log entries from the in-memory buffer",
		Tags:        []string{"logs"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*LogHistoryResponse, error) {
		resp := &LogHistoryResponse{}
		resp.Body.Entries = logging.History().Snapshot()
		return resp, nil
	})

	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log Stream",
		Description: "Real-time log streaming. Sends history first, then streams new entries.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		for _, entry := range logging.History().Snapshot() {
			if err := send.Data(logEntryEvent(entry)); err != nil {
				return
			}
		}

		// Large buffer, log bursts are common.
		eventCh := make(chan any, 100)
		unsubscribe := events.SubscribeToChannel[events.LogEntryEvent](s.bus, eventCh)
		defer unsubscribe()

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

func logEntryEvent(entry logging.Entry) events.LogEntryEvent {
	return events.LogEntryEvent{
		Timestamp: entry.Timestamp.Format(time.RFC3339Nano),
		Level:     entry.Level,
		Module:    entry.Module,
		Message:   entry.Message,
		Attrs:     entry.Attrs,
	}
}
