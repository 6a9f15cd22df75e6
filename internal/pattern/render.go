package pattern

import (
	"fmt"
	"math"
	"time"
)

// PixelBuffer is one rendered frame, one color per configured pixel.
// Render allocates a fresh buffer per frame so a frame being written
// out is never mutated underneath the backend.
type PixelBuffer []RGB

// Render computes the frame for spec at the given elapsed time.
// It is referentially transparent: the same (spec, elapsed, pixels)
// always yields the same buffer.
func Render(spec Spec, elapsed time.Duration, pixels int) (PixelBuffer, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("render: invalid pixel count %d", pixels)
	}

	buf := make(PixelBuffer, pixels)
	switch spec.Kind {
	case KindPulse:
		renderPulse(buf, spec, elapsed)
	case KindRainbow:
		renderRainbow(buf, spec, elapsed)
	case KindFlash:
		renderFlash(buf, spec, elapsed)
	case KindStatus:
		fill(buf, spec.Color)
	default:
		return nil, fmt.Errorf("render: unknown pattern type %q", spec.Kind)
	}
	return buf, nil
}

// Finished reports whether spec has naturally completed at elapsed.
// Status patterns never finish on their own; they end only by preemption.
func Finished(spec Spec, elapsed time.Duration) bool {
	switch spec.Kind {
	case KindPulse, KindRainbow:
		return elapsed >= spec.Duration
	case KindFlash:
		// One cycle is an on phase plus an off phase, each Interval long.
		return elapsed >= time.Duration(2*spec.Count)*spec.Interval
	default:
		return false
	}
}

// renderPulse applies a raised-cosine brightness envelope that rises
// from 0 to full and back to 0 once per Duration.
func renderPulse(buf PixelBuffer, spec Spec, elapsed time.Duration) {
	phase := math.Mod(elapsed.Seconds(), spec.Duration.Seconds()) / spec.Duration.Seconds()
	brightness := (1 - math.Cos(2*math.Pi*phase)) / 2
	fill(buf, spec.Color.Scale(brightness))
}

// renderRainbow offsets each pixel's hue by its position along the
// strip plus the elapsed phase, at full saturation and value.
func renderRainbow(buf PixelBuffer, spec Spec, elapsed time.Duration) {
	phase := elapsed.Seconds() * spec.Speed
	n := float64(len(buf))
	for i := range buf {
		buf[i] = HSV(float64(i)/n+phase, 1, 1)
	}
}

// renderFlash alternates full-on and full-off phases of Interval each.
// Even half-phases are on, so the pattern starts lit.
func renderFlash(buf PixelBuffer, spec Spec, elapsed time.Duration) {
	halfPhase := int(elapsed / spec.Interval)
	if halfPhase%2 == 0 && halfPhase < 2*spec.Count {
		fill(buf, spec.Color)
	}
}

func fill(buf PixelBuffer, c RGB) {
	for i := range buf {
		buf[i] = c
	}
}
