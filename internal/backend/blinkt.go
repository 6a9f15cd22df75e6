package backend

import (
	"fmt"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"

	"github.com/smazurov/lightnode/internal/pattern"
)

// blinktPixels is the size of the fixed onboard APA102 array.
const blinktPixels = 8

// Blinkt drives the fixed 8-pixel onboard APA102 array over SPI.
// Brightness is applied through the controller's global intensity,
// so staged pixel values stay at full resolution.
type Blinkt struct {
	port spi.PortCloser
	dev  *apa102.Dev
	buf  []byte // staged RGB triplets
}

// NewBlinkt opens the SPI port and initializes the onboard array.
// The configured pixel count is ignored; the array size is fixed.
func NewBlinkt(cfg Config) (*Blinkt, error) {
	port, err := spireg.Open(cfg.SPIDev)
	if err != nil {
		return nil, fmt.Errorf("%w: open SPI port: %v", ErrUnavailable, err)
	}

	opts := apa102.DefaultOpts
	opts.NumPixels = blinktPixels
	opts.Intensity = uint8(cfg.brightness() * 255)

	dev, err := apa102.New(port, &opts)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: init APA102: %v", ErrUnavailable, err)
	}

	return &Blinkt{
		port: port,
		dev:  dev,
		buf:  make([]byte, 3*blinktPixels),
	}, nil
}

func (b *Blinkt) PixelCount() int { return blinktPixels }

func (b *Blinkt) Set(index int, c pattern.RGB) error {
	if index < 0 || index >= blinktPixels {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, blinktPixels)
	}
	off := index * 3
	b.buf[off+0] = c.R
	b.buf[off+1] = c.G
	b.buf[off+2] = c.B
	return nil
}

func (b *Blinkt) Flush() error {
	if _, err := b.dev.Write(b.buf); err != nil {
		return fmt.Errorf("apa102 write: %w", err)
	}
	return nil
}

func (b *Blinkt) Clear() error {
	for i := range b.buf {
		b.buf[i] = 0
	}
	return b.Flush()
}

func (b *Blinkt) Close() error {
	if err := b.dev.Halt(); err != nil {
		_ = b.port.Close()
		return err
	}
	return b.port.Close()
}
