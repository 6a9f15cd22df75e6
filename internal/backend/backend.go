// Package backend abstracts the physical or simulated LED output.
// Exactly one Backend exists per engine instance and the animation
// engine is its sole writer; implementations do not need to be safe
// for concurrent use.
package backend

import (
	"errors"

	"github.com/smazurov/lightnode/internal/pattern"
)

var (
	// ErrOutOfRange is returned by Set for an index past PixelCount.
	// Generators never exceed the configured pixel count, so hitting
	// this in operation indicates a bug and is treated as a render fault.
	ErrOutOfRange = errors.New("pixel index out of range")

	// ErrUnavailable means a hardware backend failed to initialize.
	// Never fatal: probing falls through to the console backend.
	ErrUnavailable = errors.New("LED hardware unavailable")
)

// Backend is the capability interface over an addressable light array.
type Backend interface {
	// PixelCount reports the fixed number of addressable pixels.
	PixelCount() int
	// Set stages a single pixel color. The change is not visible
	// until Flush.
	Set(index int, c pattern.RGB) error
	// Flush pushes the staged buffer to the device. It returns once
	// the transfer is issued, which is not necessarily once it is
	// displayed.
	Flush() error
	// Clear sets every pixel to black and flushes.
	Clear() error
	// Close releases the device resource.
	Close() error
}

// Config carries the environment-provided output parameters. The core
// performs no environment parsing itself; values arrive resolved.
type Config struct {
	// PixelCount is the strip length. Fixed onboard arrays ignore it.
	PixelCount int
	// Brightness is a global output ceiling in [0, 1].
	Brightness float64
	// SPIDev names the SPI port to open; empty selects the first
	// registered port.
	SPIDev string
}

func (c Config) brightness() float64 {
	if c.Brightness <= 0 || c.Brightness > 1 {
		return 1
	}
	return c.Brightness
}
