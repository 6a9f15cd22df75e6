// Package router maps inbound semantic events onto pattern submissions.
// It is the only component that knows which pattern a heartbeat, status
// change or announcement should produce; the engine just runs whatever
// it is handed.
package router

import (
	"log/slog"
	"strings"
	"time"

	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/pattern"
)

// Submitter accepts validated pattern specs. Satisfied by engine.Engine.
type Submitter interface {
	Submit(spec pattern.Spec) uint64
}

// Reaction pattern parameters for the built-in event mappings.
const (
	heartbeatPulseDuration = time.Second
	activityFlashInterval  = 150 * time.Millisecond
	announcementDuration   = 3 * time.Second
)

// statusColors maps well-known status strings to their display color.
// Unrecognized statuses fall back to informational blue.
var statusColors = map[string]pattern.RGB{
	"ok":      pattern.Green,
	"success": pattern.Green,
	"warning": pattern.Orange,
	"error":   pattern.Red,
	"info":    pattern.Blue,
	"active":  pattern.Cyan,
}

// Router subscribes to semantic events on the bus and translates each
// into a pattern submission.
type Router struct {
	submitter    Submitter
	eventBus     *events.Bus
	logger       *slog.Logger
	unsubscribes []func()
}

// New creates a router that submits to the given engine.
func New(submitter Submitter, eventBus *events.Bus, logger *slog.Logger) *Router {
	return &Router{
		submitter: submitter,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// Start subscribes to the semantic event types the router reacts to.
func (r *Router) Start() {
	r.unsubscribes = []func(){
		r.eventBus.Subscribe(func(e events.HeartbeatEvent) {
			r.handleHeartbeat(e)
		}),
		r.eventBus.Subscribe(func(e events.AnnouncementEvent) {
			r.handleAnnouncement(e)
		}),
		r.eventBus.Subscribe(func(e events.StatusChangedEvent) {
			r.handleStatus(e)
		}),
		r.eventBus.Subscribe(func(e events.ActivityEvent) {
			r.handleActivity(e)
		}),
		r.eventBus.Subscribe(func(e events.PatternRequestEvent) {
			r.handleRequest(e)
		}),
	}
	r.logger.Info("Message router started")
}

// Stop unsubscribes from all event types.
func (r *Router) Stop() {
	for _, unsub := range r.unsubscribes {
		unsub()
	}
	r.unsubscribes = nil
	r.logger.Info("Message router stopped")
}

// SubmitRequest validates a wire-format pattern request and submits it.
// Returns the accepted run's generation. Validation errors come back
// as-is; pattern.ErrValidation already carries the context.
func (r *Router) SubmitRequest(req pattern.Request) (uint64, error) {
	spec, err := pattern.ParseRequest(req)
	if err != nil {
		return 0, err
	}
	return r.submitter.Submit(spec), nil
}

// SubmitStatus shows the indicator color for the given status string.
func (r *Router) SubmitStatus(status string) uint64 {
	return r.submitter.Submit(pattern.Status(StatusColor(status)))
}

// SubmitColor shows a solid color directly, bypassing the status table.
func (r *Router) SubmitColor(c pattern.RGB) uint64 {
	return r.submitter.Submit(pattern.Status(c))
}

// StatusColor resolves a status string to its display color.
func StatusColor(status string) pattern.RGB {
	if c, ok := statusColors[strings.ToLower(status)]; ok {
		return c
	}
	return pattern.Blue
}

func (r *Router) handleHeartbeat(e events.HeartbeatEvent) {
	r.logger.Debug("Heartbeat received", "source", e.Source)
	r.submitter.Submit(pattern.Pulse(pattern.Green, heartbeatPulseDuration))
}

func (r *Router) handleAnnouncement(e events.AnnouncementEvent) {
	r.logger.Debug("Announcement received", "text", e.Text)
	r.submitter.Submit(pattern.Rainbow(announcementDuration, pattern.DefaultRainbowSpeed))
}

func (r *Router) handleStatus(e events.StatusChangedEvent) {
	color := StatusColor(e.Status)
	r.logger.Debug("Status changed", "status", e.Status, "color", color)
	r.submitter.Submit(pattern.Status(color))
}

func (r *Router) handleActivity(e events.ActivityEvent) {
	r.logger.Debug("Activity received", "source", e.Source)
	r.submitter.Submit(pattern.Flash(pattern.Blue, 1, activityFlashInterval))
}

func (r *Router) handleRequest(e events.PatternRequestEvent) {
	spec, err := pattern.ParseRequest(e.Request)
	if err != nil {
		r.logger.Warn("Rejected pattern request", "error", err)
		return
	}
	r.submitter.Submit(spec)
}
