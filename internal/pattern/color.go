package pattern

import "math"

// RGB is a single pixel color with 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Common indicator colors used by the router defaults.
var (
	Green  = RGB{R: 0, G: 255, B: 0}
	Orange = RGB{R: 255, G: 165, B: 0}
	Red    = RGB{R: 255, G: 0, B: 0}
	Blue   = RGB{R: 0, G: 0, B: 255}
	Cyan   = RGB{R: 0, G: 255, B: 255}
)

// Scale returns the color with every channel multiplied by f.
// f is clamped to [0, 1] so a scaled channel can never leave [0, 255].
func (c RGB) Scale(f float64) RGB {
	if f <= 0 {
		return RGB{}
	}
	if f >= 1 {
		return c
	}
	return RGB{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
	}
}

// HSV converts a hue/saturation/value triple, each in [0, 1], to RGB.
// Hue wraps around, so callers may pass unbounded phase values.
func HSV(h, s, v float64) RGB {
	h = h - math.Floor(h)
	if s <= 0 {
		g := clamp8(v * 255)
		return RGB{R: g, G: g, B: g}
	}

	h *= 6
	sector := int(h) % 6
	f := h - math.Floor(h)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch sector {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGB{R: clamp8(r * 255), G: clamp8(g * 255), B: clamp8(b * 255)}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
