package backend

import (
	"fmt"
	"log/slog"

	"periph.io/x/host/v3"
)

// Backend kind names accepted by New.
const (
	KindAuto    = "auto"
	KindBlinkt  = "blinkt"
	KindStrip   = "strip"
	KindConsole = "console"
)

// New returns the backend selected by kind. KindAuto probes hardware
// and falls back to the console backend; explicit kinds surface their
// initialization error instead.
func New(kind string, cfg Config, logger *slog.Logger) (Backend, error) {
	switch kind {
	case "", KindAuto:
		return Probe(cfg, logger), nil
	case KindBlinkt:
		initHost(logger)
		return NewBlinkt(cfg)
	case KindStrip:
		initHost(logger)
		return NewStrip(cfg)
	case KindConsole:
		return NewConsole(cfg), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", kind)
	}
}

// Probe detects available LED hardware: the fixed onboard array first,
// then an addressable strip. When neither initializes it falls back to
// the console backend with a one-time warning; the fallback is never
// treated as fatal.
func Probe(cfg Config, logger *slog.Logger) Backend {
	initHost(logger)

	if b, err := NewBlinkt(cfg); err == nil {
		logger.Info("Onboard LED array initialized", "pixels", b.PixelCount())
		return b
	} else {
		logger.Debug("Onboard LED array not available", "error", err)
	}

	if s, err := NewStrip(cfg); err == nil {
		logger.Info("Addressable strip initialized", "pixels", s.PixelCount())
		return s
	} else {
		logger.Debug("Addressable strip not available", "error", err)
	}

	logger.Warn("No LED hardware detected, using console backend", "pixels", cfg.PixelCount)
	return NewConsole(cfg)
}

func initHost(logger *slog.Logger) {
	if _, err := host.Init(); err != nil {
		logger.Debug("Host peripheral init failed", "error", err)
	}
}
