// Package logging provides per-module slog loggers with runtime level
// control, fanned out to stdout, the systemd journal when present, and
// an in-memory ring buffer serving the log history endpoint.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const historySize = 500

// Config selects log output format and levels.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

var (
	mu          sync.RWMutex
	cfg         Config
	initialized bool
	loggers     = make(map[string]*slog.Logger)
	levelVars   = make(map[string]*slog.LevelVar)
	history     = NewRingBuffer(historySize)
	callback    EntryCallback
)

// Initialize applies config to the logging system. Loggers handed out
// before Initialize are rebuilt so they pick up the configured format
// and per-module levels.
func Initialize(config Config) {
	mu.Lock()
	defer mu.Unlock()

	cfg = config
	initialized = true

	for module, lv := range levelVars {
		lv.Set(moduleLevel(module))
		loggers[module] = slog.New(buildHandler(cfg.Format, lv)).With("module", module)
	}

	root := &slog.LevelVar{}
	root.Set(moduleLevel(""))
	slog.SetDefault(slog.New(buildHandler(cfg.Format, root)))
}

// GetLogger returns the logger for a module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mu.RLock()
	if l, ok := loggers[module]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[module]; ok {
		return l
	}

	lv := &slog.LevelVar{}
	lv.Set(moduleLevel(module))

	format := "text"
	if initialized {
		format = cfg.Format
	}
	l := slog.New(buildHandler(format, lv)).With("module", module)
	loggers[module] = l
	levelVars[module] = lv
	return l
}

// SetModuleLevel changes a module's log level at runtime. Unknown
// modules are ignored; they will pick up config levels on creation.
func SetModuleLevel(module, level string) {
	mu.Lock()
	defer mu.Unlock()
	if lv, ok := levelVars[module]; ok {
		if parsed, ok := parseLevel(level); ok {
			lv.Set(parsed)
		}
	}
}

// History returns the ring buffer of recent log entries.
func History() *RingBuffer {
	mu.RLock()
	defer mu.RUnlock()
	return history
}

// SetEntryCallback registers a callback invoked for every new entry.
// Used to stream logs over SSE without an import cycle.
func SetEntryCallback(cb EntryCallback) {
	mu.Lock()
	defer mu.Unlock()
	callback = cb
}

// moduleLevel resolves the effective level for a module. Callers hold mu.
func moduleLevel(module string) slog.Level {
	level := slog.LevelInfo
	if initialized {
		if parsed, ok := parseLevel(cfg.Level); ok {
			level = parsed
		}
		if s, ok := cfg.Modules[module]; ok {
			if parsed, ok := parseLevel(s); ok {
				level = parsed
			}
		}
	}
	return level
}

// buildHandler assembles the output chain for one logger.
func buildHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdout slog.Handler
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdout = slog.NewTextHandler(os.Stdout, opts)
	}

	handlers := []slog.Handler{stdout}
	if journalAvailable() {
		handlers = append(handlers, newJournalHandler(level))
	}
	handlers = append(handlers, newBufferHandler(level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return newMultiHandler(handlers...)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func levelString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
