// Package engine owns the single active pattern and the render loop
// that drives the output backend. Its correctness guarantee: at most
// one render loop writes to the backend at any instant, and the newest
// submitted pattern always wins.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/lightnode/internal/backend"
	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/pattern"
)

// Finish reasons published with PatternFinishedEvent.
const (
	ReasonCompleted = "completed"
	ReasonPreempted = "preempted"
	ReasonStopped   = "stopped"
	ReasonFault     = "fault"
	ReasonCeiling   = "ceiling"
)

const (
	defaultFPS = 30
	maxFPS     = 60
)

// Options configures an Engine.
type Options struct {
	Backend backend.Backend
	Bus     *events.Bus // optional, lifecycle events are skipped when nil
	Logger  *slog.Logger
	Metrics *Metrics // optional
	// FPS is the target frame rate, bounded to [1, 60]. Default 30.
	FPS int
	// MaxRun caps the run length of finite patterns (pulse, rainbow,
	// flash). Status is exempt: it is indefinite by design. Zero
	// disables the ceiling.
	MaxRun time.Duration
}

// run is the mutable state of one executing pattern. It is owned
// exclusively by the engine; cancellation is cooperative and checked
// at every frame boundary.
type run struct {
	spec       pattern.Spec
	generation uint64
	startedAt  time.Time
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{} // closed after the loop's final backend write
	finished   sync.Once     // guards the single finished notification
}

// Engine runs at most one render loop at a time against its backend.
type Engine struct {
	backend       backend.Backend
	bus           *events.Bus
	logger        *slog.Logger
	metrics       *Metrics
	frameInterval time.Duration
	maxRun        time.Duration

	// submitMu serializes Submit/Stop so the cancel-wait-start
	// sequence of one caller cannot interleave with another's.
	submitMu sync.Mutex

	// mu guards active and generation. Never held while waiting for
	// a loop to exit, so a finishing loop can always detach itself.
	mu         sync.Mutex
	active     *run
	generation uint64
}

// New creates an engine for the given backend. The engine is Idle
// until the first Submit.
func New(opts Options) *Engine {
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	if fps > maxFPS {
		fps = maxFPS
	}
	return &Engine{
		backend:       opts.Backend,
		bus:           opts.Bus,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		frameInterval: time.Second / time.Duration(fps),
		maxRun:        opts.MaxRun,
	}
}

// Submit accepts spec immediately, preempting any running pattern.
// There is no queueing: the newest request wins and older ones are
// discarded without error. Returns the new run's generation.
//
// The previous run's loop is signaled and awaited before the new loop
// starts, so frames from two generations never interleave. The wait is
// bounded by one frame interval because loops check cancellation at
// every frame boundary.
func (e *Engine) Submit(spec pattern.Spec) uint64 {
	e.submitMu.Lock()
	defer e.submitMu.Unlock()

	if prev := e.takeActive(); prev != nil {
		prev.cancel()
		<-prev.done
		e.publishFinished(prev, ReasonPreempted)
		if e.metrics != nil {
			e.metrics.Preemptions.Inc()
		}
	}

	r := e.startRun(spec)
	e.logger.Debug("Pattern accepted",
		"kind", spec.Kind,
		"generation", r.generation)
	return r.generation
}

// Stop preempts any running pattern and clears the output. Used on
// shutdown and for explicit stop requests; the engine stays usable.
func (e *Engine) Stop() {
	e.submitMu.Lock()
	defer e.submitMu.Unlock()

	prev := e.takeActive()
	if prev == nil {
		return
	}
	prev.cancel()
	<-prev.done
	if err := e.backend.Clear(); err != nil {
		e.logger.Warn("Failed to clear backend on stop", "error", err)
	}
	e.publishFinished(prev, ReasonStopped)
}

// Current returns the active pattern and its generation, or false when
// the engine is Idle.
func (e *Engine) Current() (pattern.Spec, uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return pattern.Spec{}, 0, false
	}
	return e.active.spec, e.active.generation, true
}

// takeActive detaches and returns the active run, if any.
func (e *Engine) takeActive() *run {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.active
	e.active = nil
	return r
}

func (e *Engine) startRun(spec pattern.Spec) *run {
	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	e.generation++
	r := &run{
		spec:       spec,
		generation: e.generation,
		startedAt:  time.Now(),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	e.active = r
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.Patterns.WithLabelValues(string(spec.Kind)).Inc()
		e.metrics.Active.Set(1)
	}
	if e.bus != nil {
		e.bus.Publish(events.PatternStartedEvent{
			Kind:       string(spec.Kind),
			Generation: r.generation,
			Timestamp:  time.Now().Format(time.RFC3339),
		})
	}

	go e.renderLoop(r)
	return r
}

// renderLoop computes and writes one frame per tick until the run is
// canceled, finishes naturally, hits the safety ceiling or faults.
// done is closed only after the final backend write, which is what
// Submit relies on for the single-writer guarantee.
func (e *Engine) renderLoop(r *run) {
	defer close(r.done)

	ticker := time.NewTicker(e.frameInterval)
	defer ticker.Stop()

	// First frame synchronously, so a new pattern is visible within
	// one frame interval of acceptance.
	if !e.writeFrame(r, 0) {
		e.abort(r)
		return
	}

	for {
		select {
		case <-r.ctx.Done():
			// Preempted or stopped. The successor owns the backend
			// from here; no further writes.
			return

		case <-ticker.C:
			elapsed := time.Since(r.startedAt)

			if pattern.Finished(r.spec, elapsed) {
				e.complete(r, ReasonCompleted)
				return
			}
			if e.ceilingHit(r.spec, elapsed) {
				e.logger.Warn("Pattern exceeded run ceiling",
					"kind", r.spec.Kind,
					"generation", r.generation,
					"ceiling", e.maxRun)
				e.complete(r, ReasonCeiling)
				return
			}
			if !e.writeFrame(r, elapsed) {
				e.abort(r)
				return
			}
		}
	}
}

// writeFrame renders and pushes a single frame. Any generator failure,
// including a panic, is contained here and reported as false.
func (e *Engine) writeFrame(r *run, elapsed time.Duration) bool {
	buf, err := e.renderSafe(r.spec, elapsed)
	if err != nil {
		e.logger.Error("Render fault, aborting run",
			"kind", r.spec.Kind,
			"generation", r.generation,
			"error", err)
		if e.metrics != nil {
			e.metrics.RenderFaults.Inc()
		}
		return false
	}

	for i, c := range buf {
		if err := e.backend.Set(i, c); err != nil {
			e.logger.Error("Backend write fault", "pixel", i, "error", err)
			return false
		}
	}
	if err := e.backend.Flush(); err != nil {
		e.logger.Error("Backend flush fault", "error", err)
		return false
	}
	if e.metrics != nil {
		e.metrics.Frames.Inc()
	}
	return true
}

// renderSafe shields the render loop from generator panics.
func (e *Engine) renderSafe(spec pattern.Spec, elapsed time.Duration) (buf pattern.PixelBuffer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			buf, err = nil, fmt.Errorf("generator panic: %v", rec)
		}
	}()
	return pattern.Render(spec, elapsed, e.backend.PixelCount())
}

func (e *Engine) ceilingHit(spec pattern.Spec, elapsed time.Duration) bool {
	if e.maxRun <= 0 || spec.Kind == pattern.KindStatus {
		return false
	}
	return elapsed >= e.maxRun
}

// complete handles natural completion: clear policy, detach, notify.
func (e *Engine) complete(r *run, reason string) {
	if err := e.backend.Clear(); err != nil {
		e.logger.Warn("Failed to clear backend after pattern", "error", err)
	}
	e.detach(r)
	e.publishFinished(r, reason)
}

// abort handles a render fault: degrade to cleared output and go Idle.
func (e *Engine) abort(r *run) {
	if err := e.backend.Clear(); err != nil {
		e.logger.Warn("Failed to clear backend after fault", "error", err)
	}
	e.detach(r)
	e.publishFinished(r, ReasonFault)
}

// detach removes r from the engine if it is still the active run.
// A preempting Submit may already have detached it.
func (e *Engine) detach(r *run) {
	e.mu.Lock()
	if e.active == r {
		e.active = nil
	}
	e.mu.Unlock()
}

// publishFinished notifies at most once per run; a loop completing
// naturally in the same instant it is preempted reports only the
// first reason observed.
func (e *Engine) publishFinished(r *run, reason string) {
	r.finished.Do(func() {
		if e.metrics != nil {
			e.metrics.Active.Set(0)
		}
		if e.bus != nil {
			e.bus.Publish(events.PatternFinishedEvent{
				Generation: r.generation,
				Reason:     reason,
				Timestamp:  time.Now().Format(time.RFC3339),
			})
		}
	})
}
