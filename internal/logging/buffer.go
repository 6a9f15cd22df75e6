package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Entry is one captured log line.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Module    string         `json:"module"`
	Message   string         `json:"message"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// EntryCallback receives each new entry as it is written.
type EntryCallback func(entry Entry)

// RingBuffer keeps the most recent log entries, overwriting the oldest.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int
}

// NewRingBuffer creates a buffer holding up to size entries.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{entries: make([]Entry, size)}
}

// Write stores an entry, evicting the oldest when full.
func (rb *RingBuffer) Write(entry Entry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % len(rb.entries)
	if rb.count < len(rb.entries) {
		rb.count++
	}
}

// Snapshot returns the stored entries oldest first.
func (rb *RingBuffer) Snapshot() []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if rb.count == 0 {
		return nil
	}
	out := make([]Entry, rb.count)
	if rb.count < len(rb.entries) {
		copy(out, rb.entries[:rb.count])
	} else {
		n := copy(out, rb.entries[rb.head:])
		copy(out[n:], rb.entries[:rb.head])
	}
	return out
}

// Len returns the number of stored entries.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// bufferHandler is a slog.Handler that writes entries to the package
// ring buffer and fires the entry callback. It reads the buffer and
// callback through the package state so Initialize can swap them.
type bufferHandler struct {
	level slog.Leveler
	attrs []slog.Attr
}

func newBufferHandler(level slog.Leveler) *bufferHandler {
	return &bufferHandler{level: level}
}

func (h *bufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *bufferHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	module := "app"

	collect := func(a slog.Attr) {
		if a.Key == "module" {
			module = a.Value.String()
			return
		}
		if err, ok := a.Value.Any().(error); ok {
			attrs[a.Key] = err.Error()
			return
		}
		attrs[a.Key] = a.Value.Any()
	}

	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	if len(attrs) == 0 {
		attrs = nil
	}
	entry := Entry{
		Timestamp: r.Time,
		Level:     levelString(r.Level),
		Module:    module,
		Message:   r.Message,
		Attrs:     attrs,
	}

	mu.RLock()
	buf, cb := history, callback
	mu.RUnlock()

	buf.Write(entry)
	if cb != nil {
		cb(entry)
	}
	return nil
}

func (h *bufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &bufferHandler{level: h.level, attrs: merged}
}

func (h *bufferHandler) WithGroup(string) slog.Handler {
	// Groups are flattened away; the history endpoint shows flat attrs.
	return h
}
