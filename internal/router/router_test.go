package router

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/pattern"
)

// mockSubmitter records submitted specs in order.
type mockSubmitter struct {
	mu    sync.Mutex
	specs []pattern.Spec
	gen   uint64
}

func (m *mockSubmitter) Submit(spec pattern.Spec) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.specs = append(m.specs, spec)
	m.gen++
	return m.gen
}

func (m *mockSubmitter) last() (pattern.Spec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.specs) == 0 {
		return pattern.Spec{}, false
	}
	return m.specs[len(m.specs)-1], true
}

func (m *mockSubmitter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.specs)
}

func newTestRouter() (*Router, *mockSubmitter, *events.Bus) {
	sub := &mockSubmitter{}
	bus := events.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(sub, bus, logger), sub, bus
}

func waitForSubmit(t *testing.T, sub *mockSubmitter, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if sub.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("submitter received %d specs, want %d", sub.count(), want)
}

func TestRouter_Heartbeat(t *testing.T) {
	rt, sub, bus := newTestRouter()
	rt.Start()
	defer rt.Stop()

	bus.Publish(events.HeartbeatEvent{Source: "host1"})
	waitForSubmit(t, sub, 1)

	spec, _ := sub.last()
	if spec.Kind != pattern.KindPulse {
		t.Fatalf("heartbeat mapped to %q, want pulse", spec.Kind)
	}
	if spec.Color != pattern.Green {
		t.Errorf("heartbeat color = %+v, want green", spec.Color)
	}
	if spec.Duration != time.Second {
		t.Errorf("heartbeat duration = %v, want 1s", spec.Duration)
	}
}

func TestRouter_Announcement(t *testing.T) {
	rt, sub, bus := newTestRouter()
	rt.Start()
	defer rt.Stop()

	bus.Publish(events.AnnouncementEvent{Text: "deploy finished"})
	waitForSubmit(t, sub, 1)

	spec, _ := sub.last()
	if spec.Kind != pattern.KindRainbow {
		t.Fatalf("announcement mapped to %q, want rainbow", spec.Kind)
	}
	if spec.Duration != 3*time.Second {
		t.Errorf("announcement duration = %v, want 3s", spec.Duration)
	}
}

func TestRouter_StatusColors(t *testing.T) {
	tests := []struct {
		status string
		want   pattern.RGB
	}{
		{"ok", pattern.Green},
		{"success", pattern.Green},
		{"warning", pattern.Orange},
		{"error", pattern.Red},
		{"info", pattern.Blue},
		{"active", pattern.Cyan},
		{"ERROR", pattern.Red},
		{"banana", pattern.Blue},
		{"", pattern.Blue},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := StatusColor(tt.status); got != tt.want {
				t.Errorf("StatusColor(%q) = %+v, want %+v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRouter_StatusChanged(t *testing.T) {
	rt, sub, bus := newTestRouter()
	rt.Start()
	defer rt.Stop()

	bus.Publish(events.StatusChangedEvent{Status: "error"})
	waitForSubmit(t, sub, 1)

	spec, _ := sub.last()
	if spec.Kind != pattern.KindStatus {
		t.Fatalf("status mapped to %q, want status", spec.Kind)
	}
	if spec.Color != pattern.Red {
		t.Errorf("status color = %+v, want red", spec.Color)
	}
}

func TestRouter_Activity(t *testing.T) {
	rt, sub, bus := newTestRouter()
	rt.Start()
	defer rt.Stop()

	bus.Publish(events.ActivityEvent{Source: "sensor"})
	waitForSubmit(t, sub, 1)

	spec, _ := sub.last()
	if spec.Kind != pattern.KindFlash {
		t.Fatalf("activity mapped to %q, want flash", spec.Kind)
	}
	if spec.Count != 1 {
		t.Errorf("activity flash count = %d, want 1", spec.Count)
	}
	if spec.Color != pattern.Blue {
		t.Errorf("activity color = %+v, want blue", spec.Color)
	}
}

func TestRouter_PatternRequestEvent(t *testing.T) {
	rt, sub, bus := newTestRouter()
	rt.Start()
	defer rt.Stop()

	dur := 1.5
	bus.Publish(events.PatternRequestEvent{
		Request: pattern.Request{
			Type:     "pulse",
			Color:    &[3]int{255, 0, 0},
			Duration: &dur,
		},
	})
	waitForSubmit(t, sub, 1)

	spec, _ := sub.last()
	if spec.Kind != pattern.KindPulse || spec.Duration != 1500*time.Millisecond {
		t.Errorf("got %+v, want 1.5s red pulse", spec)
	}
}

func TestRouter_InvalidRequestDropped(t *testing.T) {
	rt, sub, bus := newTestRouter()
	rt.Start()
	defer rt.Stop()

	bus.Publish(events.PatternRequestEvent{
		Request: pattern.Request{Type: "disco"},
	})

	time.Sleep(100 * time.Millisecond)
	if sub.count() != 0 {
		t.Errorf("invalid request reached the engine: %d submissions", sub.count())
	}
}

func TestRouter_SubmitRequest(t *testing.T) {
	rt, sub, _ := newTestRouter()

	gen, err := rt.SubmitRequest(pattern.Request{Type: "rainbow"})
	if err != nil {
		t.Fatalf("SubmitRequest() error = %v", err)
	}
	if gen != 1 {
		t.Errorf("generation = %d, want 1", gen)
	}
	spec, _ := sub.last()
	if spec.Kind != pattern.KindRainbow {
		t.Errorf("kind = %q, want rainbow", spec.Kind)
	}

	_, err = rt.SubmitRequest(pattern.Request{Type: "pulse"})
	if !errors.Is(err, pattern.ErrValidation) {
		t.Errorf("pulse without color: error = %v, want validation error", err)
	}
	if n := strings.Count(err.Error(), "invalid pattern request"); n != 1 {
		t.Errorf("error message repeats the validation prefix %d times: %q", n, err)
	}
}

func TestRouter_SubmitStatus(t *testing.T) {
	rt, sub, _ := newTestRouter()

	rt.SubmitStatus("warning")

	spec, ok := sub.last()
	if !ok || spec.Kind != pattern.KindStatus {
		t.Fatalf("got %+v, want a status spec", spec)
	}
	if spec.Color != pattern.Orange {
		t.Errorf("color = %+v, want orange", spec.Color)
	}
}

func TestRouter_SubmitColor(t *testing.T) {
	rt, sub, _ := newTestRouter()

	rt.SubmitColor(pattern.RGB{R: 10, G: 20, B: 30})

	spec, ok := sub.last()
	if !ok || spec.Kind != pattern.KindStatus {
		t.Fatalf("got %+v, want a status spec", spec)
	}
	if spec.Color != (pattern.RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("color = %+v", spec.Color)
	}
}

func TestRouter_StopUnsubscribes(t *testing.T) {
	rt, sub, bus := newTestRouter()
	rt.Start()

	bus.Publish(events.HeartbeatEvent{})
	waitForSubmit(t, sub, 1)

	rt.Stop()
	bus.Publish(events.HeartbeatEvent{})
	time.Sleep(100 * time.Millisecond)

	if sub.count() != 1 {
		t.Errorf("events still routed after Stop: %d submissions", sub.count())
	}
}
