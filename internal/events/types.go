package events

import "github.com/smazurov/lightnode/internal/pattern"

// Event type constants for kelindar/event.
const (
	TypeHeartbeat uint32 = iota + 1
	TypeAnnouncement
	TypeStatusChanged
	TypeActivity
	TypePatternRequest
	TypePatternStarted
	TypePatternFinished
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// HeartbeatEvent signals a liveness beat from some component.
// The router maps it to a short green pulse.
type HeartbeatEvent struct {
	Source    string `json:"source" example:"agent-1" doc:"Component that emitted the heartbeat"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for HeartbeatEvent.
func (e HeartbeatEvent) Type() uint32 { return TypeHeartbeat }

// AnnouncementEvent carries a textual announcement. The text itself is
// not rendered; the router maps the event to a rainbow sweep.
type AnnouncementEvent struct {
	Text      string `json:"text" doc:"Announcement text (not rendered)"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for AnnouncementEvent.
func (e AnnouncementEvent) Type() uint32 { return TypeAnnouncement }

// StatusChangedEvent reports a system status update, mapped to a solid
// status color through the router's lookup table.
type StatusChangedEvent struct {
	Status    string `json:"status" example:"ok" doc:"Status keyword: ok, warning, error, info, active"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StatusChangedEvent.
func (e StatusChangedEvent) Type() uint32 { return TypeStatusChanged }

// ActivityEvent signals generic output activity, mapped to a short
// blue flash.
type ActivityEvent struct {
	Source    string `json:"source" example:"agent-1" doc:"Component that produced output"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ActivityEvent.
func (e ActivityEvent) Type() uint32 { return TypeActivity }

// PatternRequestEvent carries an explicit pattern payload from an
// external source.
type PatternRequestEvent struct {
	Request   pattern.Request `json:"request" doc:"Explicit pattern request payload"`
	Timestamp string          `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PatternRequestEvent.
func (e PatternRequestEvent) Type() uint32 { return TypePatternRequest }

// PatternStartedEvent is published by the engine when a new run begins
// writing frames.
type PatternStartedEvent struct {
	Kind       string `json:"kind" example:"pulse" doc:"Pattern kind"`
	Generation uint64 `json:"generation" example:"7" doc:"Run generation identifier"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PatternStartedEvent.
func (e PatternStartedEvent) Type() uint32 { return TypePatternStarted }

// PatternFinishedEvent is published by the engine when a run stops
// writing frames.
type PatternFinishedEvent struct {
	Generation uint64 `json:"generation" example:"7" doc:"Run generation identifier"`
	Reason     string `json:"reason" example:"completed" doc:"completed, preempted, stopped, fault or ceiling"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PatternFinishedEvent.
func (e PatternFinishedEvent) Type() uint32 { return TypePatternFinished }

// LogEntryEvent mirrors a captured log line for SSE streaming.
type LogEntryEvent struct {
	Timestamp string         `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Log timestamp"`
	Level     string         `json:"level" example:"info" doc:"Log level"`
	Module    string         `json:"module" example:"engine" doc:"Module that produced the line"`
	Message   string         `json:"message" doc:"Log message"`
	Attrs     map[string]any `json:"attrs,omitempty" doc:"Structured attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
