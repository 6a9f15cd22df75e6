package pattern

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Kind names one of the supported animation variants.
type Kind string

// Supported pattern kinds. The wire protocol uses the same spellings.
const (
	KindPulse   Kind = "pulse"
	KindRainbow Kind = "rainbow"
	KindFlash   Kind = "flash"
	KindStatus  Kind = "status"
)

// Per-variant defaults applied when an explicit request omits optional fields.
const (
	DefaultPulseDuration   = 2 * time.Second
	DefaultRainbowDuration = 3 * time.Second
	DefaultRainbowSpeed    = 0.5 // hue cycles per second
	DefaultFlashCount      = 3
	DefaultFlashInterval   = 200 * time.Millisecond
)

// ErrValidation marks a malformed or out-of-range pattern request.
// Requests failing validation never reach the animation engine.
var ErrValidation = errors.New("invalid pattern request")

// Spec is an immutable description of a requested animation.
// Kind selects the variant; the remaining fields are only meaningful
// for the variants that use them.
type Spec struct {
	Kind     Kind
	Color    RGB           // pulse, flash, status
	Duration time.Duration // pulse, rainbow
	Speed    float64       // rainbow, hue cycles per second
	Count    int           // flash, number of on/off cycles
	Interval time.Duration // flash, length of each on and each off phase
}

// Pulse describes a breathing brightness envelope in the given color.
func Pulse(c RGB, duration time.Duration) Spec {
	return Spec{Kind: KindPulse, Color: c, Duration: duration}
}

// Rainbow describes a moving hue gradient across all pixels.
func Rainbow(duration time.Duration, speed float64) Spec {
	return Spec{Kind: KindRainbow, Duration: duration, Speed: speed}
}

// Flash describes count discrete on/off cycles of the given color.
func Flash(c RGB, count int, interval time.Duration) Spec {
	return Spec{Kind: KindFlash, Color: c, Count: count, Interval: interval}
}

// Status describes a static solid fill with no natural end.
func Status(c RGB) Spec {
	return Spec{Kind: KindStatus, Color: c}
}

// Validate checks the variant-specific field invariants.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindPulse:
		if s.Duration <= 0 {
			return fmt.Errorf("%w: pulse duration must be positive, got %v", ErrValidation, s.Duration)
		}
	case KindRainbow:
		if s.Duration <= 0 {
			return fmt.Errorf("%w: rainbow duration must be positive, got %v", ErrValidation, s.Duration)
		}
		if s.Speed <= 0 || math.IsNaN(s.Speed) || math.IsInf(s.Speed, 1) {
			return fmt.Errorf("%w: rainbow speed must be positive and finite, got %v", ErrValidation, s.Speed)
		}
	case KindFlash:
		if s.Count < 1 {
			return fmt.Errorf("%w: flash count must be >= 1, got %d", ErrValidation, s.Count)
		}
		if s.Interval <= 0 {
			return fmt.Errorf("%w: flash interval must be positive, got %v", ErrValidation, s.Interval)
		}
	case KindStatus:
		// Color alone, nothing to check.
	default:
		return fmt.Errorf("%w: unknown pattern type %q", ErrValidation, s.Kind)
	}
	return nil
}

// Request is the wire form of a pattern submission, accepted both as a
// direct API body and as a bus payload. Optional fields are pointers so
// that absent and zero values can be told apart.
type Request struct {
	Type     string   `json:"type" example:"pulse" doc:"Pattern type: pulse, rainbow, flash or status"`
	Color    *[3]int  `json:"color,omitempty" doc:"RGB channels 0-255; required for pulse, flash and status"`
	Duration *float64 `json:"duration,omitempty" example:"2.0" doc:"Duration in seconds (pulse, rainbow)"`
	Speed    *float64 `json:"speed,omitempty" example:"0.5" doc:"Hue cycles per second (rainbow)"`
	Flashes  *int     `json:"flashes,omitempty" example:"3" doc:"Number of on/off cycles (flash)"`
	Interval *float64 `json:"interval,omitempty" example:"0.2" doc:"Phase length in seconds (flash)"`
}

// ParseRequest normalizes a wire request into a validated Spec,
// applying per-variant defaults for omitted optional fields.
func ParseRequest(req Request) (Spec, error) {
	var spec Spec

	switch Kind(req.Type) {
	case KindPulse:
		color, err := parseColor(req.Color, req.Type)
		if err != nil {
			return Spec{}, err
		}
		spec = Pulse(color, secondsOr(req.Duration, DefaultPulseDuration))

	case KindRainbow:
		speed := DefaultRainbowSpeed
		if req.Speed != nil {
			speed = *req.Speed
		}
		spec = Rainbow(secondsOr(req.Duration, DefaultRainbowDuration), speed)

	case KindFlash:
		color, err := parseColor(req.Color, req.Type)
		if err != nil {
			return Spec{}, err
		}
		count := DefaultFlashCount
		if req.Flashes != nil {
			count = *req.Flashes
		}
		spec = Flash(color, count, secondsOr(req.Interval, DefaultFlashInterval))

	case KindStatus:
		color, err := parseColor(req.Color, req.Type)
		if err != nil {
			return Spec{}, err
		}
		spec = Status(color)

	default:
		return Spec{}, fmt.Errorf("%w: unknown pattern type %q", ErrValidation, req.Type)
	}

	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func parseColor(c *[3]int, typ string) (RGB, error) {
	if c == nil {
		return RGB{}, fmt.Errorf("%w: %s requires a color", ErrValidation, typ)
	}
	for _, ch := range c {
		if ch < 0 || ch > 255 {
			return RGB{}, fmt.Errorf("%w: color channel %d out of range [0,255]", ErrValidation, ch)
		}
	}
	return RGB{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}, nil
}

func secondsOr(v *float64, fallback time.Duration) time.Duration {
	if v == nil {
		return fallback
	}
	return time.Duration(*v * float64(time.Second))
}
