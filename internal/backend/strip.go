package backend

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/smazurov/lightnode/internal/pattern"
)

// WS2812 timing is approximated by expanding each data bit into three
// SPI bits at 2.4 MHz: a one becomes 110, a zero becomes 100. The latch
// is a stretch of zero bytes long enough to hold the line low past the
// reset threshold.
const (
	stripSpeed      = 2400 * physic.KiloHertz
	stripLatchBytes = 128
)

// Strip drives an addressable WS2812 strip of arbitrary length over a
// periph.io SPI port. Brightness is applied when pixels are staged.
type Strip struct {
	port       spi.PortCloser
	conn       spi.Conn
	count      int
	brightness float64
	buf        []pattern.RGB
	lut        [256][3]byte
}

// NewStrip opens the SPI port and prepares the bit-expansion encoder.
func NewStrip(cfg Config) (*Strip, error) {
	if cfg.PixelCount <= 0 {
		return nil, fmt.Errorf("%w: invalid pixel count %d", ErrUnavailable, cfg.PixelCount)
	}

	port, err := spireg.Open(cfg.SPIDev)
	if err != nil {
		return nil, fmt.Errorf("%w: open SPI port: %v", ErrUnavailable, err)
	}

	conn, err := port.Connect(stripSpeed, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: connect SPI: %v", ErrUnavailable, err)
	}

	s := &Strip{
		port:       port,
		conn:       conn,
		count:      cfg.PixelCount,
		brightness: cfg.brightness(),
		buf:        make([]pattern.RGB, cfg.PixelCount),
	}
	s.buildLUT()
	return s, nil
}

// buildLUT expands every input byte MSB-first into 24 SPI bits packed
// as 3 output bytes.
func (s *Strip) buildLUT() {
	for v := 0; v < 256; v++ {
		var out uint32
		for i := 7; i >= 0; i-- {
			if (v>>i)&1 == 1 {
				out = out<<3 | 0b110
			} else {
				out = out<<3 | 0b100
			}
		}
		s.lut[v] = [3]byte{byte(out >> 16), byte(out >> 8), byte(out)}
	}
}

func (s *Strip) PixelCount() int { return s.count }

func (s *Strip) Set(index int, c pattern.RGB) error {
	if index < 0 || index >= s.count {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, s.count)
	}
	s.buf[index] = c.Scale(s.brightness)
	return nil
}

func (s *Strip) Flush() error {
	// 9 encoded bytes per pixel (3 per channel, GRB order) plus latch.
	enc := make([]byte, s.count*9+stripLatchBytes)
	for i, px := range s.buf {
		off := i * 9
		copy(enc[off:off+3], s.lut[px.G][:])
		copy(enc[off+3:off+6], s.lut[px.R][:])
		copy(enc[off+6:off+9], s.lut[px.B][:])
	}
	if err := s.conn.Tx(enc, nil); err != nil {
		return fmt.Errorf("ws2812 write: %w", err)
	}
	return nil
}

func (s *Strip) Clear() error {
	for i := range s.buf {
		s.buf[i] = pattern.RGB{}
	}
	return s.Flush()
}

func (s *Strip) Close() error {
	if err := s.Clear(); err != nil {
		_ = s.port.Close()
		return err
	}
	return s.port.Close()
}
