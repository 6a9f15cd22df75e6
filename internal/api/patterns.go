package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/pattern"
)

// PatternSubmitRequest wraps the wire-format pattern payload.
type PatternSubmitRequest struct {
	Body pattern.Request
}

// PatternAcceptedResponse reports the accepted run.
type PatternAcceptedResponse struct {
	Body struct {
		Generation uint64 `json:"generation" example:"7" doc:"Run generation identifier"`
		Kind       string `json:"kind" example:"pulse" doc:"Accepted pattern kind"`
	}
}

// CurrentPatternResponse describes the engine's active pattern.
type CurrentPatternResponse struct {
	Body struct {
		Running    bool   `json:"running" doc:"Whether a pattern is currently rendering"`
		Kind       string `json:"kind,omitempty" example:"rainbow" doc:"Active pattern kind"`
		Generation uint64 `json:"generation,omitempty" example:"7" doc:"Run generation identifier"`
	}
}

// ColorRequest sets a solid color directly. The body carries the three
// channels as top-level r/g/b fields.
type ColorRequest struct {
	Body pattern.RGB
}

// StatusRequest reports a status keyword.
type StatusRequest struct {
	Body struct {
		Status string `json:"status" example:"ok" doc:"Status keyword: ok, warning, error, info, active"`
	}
}

// HeartbeatRequest signals liveness from an external component.
type HeartbeatRequest struct {
	Body struct {
		Source string `json:"source,omitempty" example:"agent-1" doc:"Component emitting the heartbeat"`
	}
}

// AnnouncementRequest triggers the announcement reaction.
type AnnouncementRequest struct {
	Body struct {
		Text string `json:"text,omitempty" doc:"Announcement text (not rendered)"`
	}
}

// ActivityRequest signals output activity from an external component.
type ActivityRequest struct {
	Body struct {
		Source string `json:"source,omitempty" example:"agent-1" doc:"Component that produced output"`
	}
}

// AcceptedResponse acknowledges an event that was published to the bus.
type AcceptedResponse struct {
	Body struct {
		Accepted bool `json:"accepted" doc:"Event was published for routing"`
	}
}

func accepted() *AcceptedResponse {
	resp := &AcceptedResponse{}
	resp.Body.Accepted = true
	return resp
}

func (s *Server) registerPatternRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "submit-pattern",
		Method:      http.MethodPost,
		Path:        "/api/pattern",
		Summary:     "Submit Pattern",
		Description: "Start a pattern immediately, preempting any running one",
		Tags:        []string{"patterns"},
		Errors:      []int{400, 401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *PatternSubmitRequest) (*PatternAcceptedResponse, error) {
		gen, err := s.router.SubmitRequest(input.Body)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid pattern request", err)
		}
		resp := &PatternAcceptedResponse{}
		resp.Body.Generation = gen
		resp.Body.Kind = input.Body.Type
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-pattern",
		Method:      http.MethodGet,
		Path:        "/api/pattern",
		Summary:     "Current Pattern",
		Description: "Get the currently rendering pattern, if any",
		Tags:        []string{"patterns"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*CurrentPatternResponse, error) {
		resp := &CurrentPatternResponse{}
		spec, gen, running := s.engine.Current()
		resp.Body.Running = running
		if running {
			resp.Body.Kind = string(spec.Kind)
			resp.Body.Generation = gen
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-pattern",
		Method:      http.MethodDelete,
		Path:        "/api/pattern",
		Summary:     "Stop Pattern",
		Description: "Stop the running pattern and clear the output",
		Tags:        []string{"patterns"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*struct{}, error) {
		s.engine.Stop()
		return &struct{}{}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-color",
		Method:      http.MethodPost,
		Path:        "/api/color",
		Summary:     "Set Color",
		Description: "Show a solid color until replaced",
		Tags:        []string{"patterns"},
		Errors:      []int{400, 401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ColorRequest) (*PatternAcceptedResponse, error) {
		resp := &PatternAcceptedResponse{}
		resp.Body.Generation = s.router.SubmitColor(input.Body)
		resp.Body.Kind = string(pattern.KindStatus)
		return resp, nil
	})
}

// registerEventRoutes exposes the semantic inbound events over HTTP.
// Handlers publish to the bus; the router decides what each event means.
func (s *Server) registerEventRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "report-status",
		Method:      http.MethodPost,
		Path:        "/api/status",
		Summary:     "Report Status",
		Description: "Report a status change, shown as its mapped color",
		Tags:        []string{"events"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *StatusRequest) (*AcceptedResponse, error) {
		s.bus.Publish(events.StatusChangedEvent{
			Status:    input.Body.Status,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return accepted(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "report-heartbeat",
		Method:      http.MethodPost,
		Path:        "/api/heartbeat",
		Summary:     "Report Heartbeat",
		Description: "Report a liveness beat, shown as a short green pulse",
		Tags:        []string{"events"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *HeartbeatRequest) (*AcceptedResponse, error) {
		s.bus.Publish(events.HeartbeatEvent{
			Source:    input.Body.Source,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return accepted(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "report-announcement",
		Method:      http.MethodPost,
		Path:        "/api/announce",
		Summary:     "Report Announcement",
		Description: "Report an announcement, shown as a rainbow sweep",
		Tags:        []string{"events"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *AnnouncementRequest) (*AcceptedResponse, error) {
		s.bus.Publish(events.AnnouncementEvent{
			Text:      input.Body.Text,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return accepted(), nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "report-activity",
		Method:      http.MethodPost,
		Path:        "/api/activity",
		Summary:     "Report Activity",
		Description: "Report output activity, shown as a short blue flash",
		Tags:        []string{"events"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *ActivityRequest) (*AcceptedResponse, error) {
		s.bus.Publish(events.ActivityEvent{
			Source:    input.Body.Source,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return accepted(), nil
	})
}
