package backend

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smazurov/lightnode/internal/pattern"
)

// Console renders frames as a truecolor bar on a terminal. It is the
// fallback when no LED hardware initializes and keeps the rest of the
// system operating identically to a hardware backend.
type Console struct {
	out    io.Writer
	pixels []pattern.RGB
}

// NewConsole creates a console backend writing to stdout.
func NewConsole(cfg Config) *Console {
	return NewConsoleWriter(cfg, os.Stdout)
}

// NewConsoleWriter creates a console backend writing to w.
func NewConsoleWriter(cfg Config, w io.Writer) *Console {
	n := cfg.PixelCount
	if n <= 0 {
		n = 8
	}
	return &Console{
		out:    w,
		pixels: make([]pattern.RGB, n),
	}
}

func (c *Console) PixelCount() int { return len(c.pixels) }

func (c *Console) Set(index int, px pattern.RGB) error {
	if index < 0 || index >= len(c.pixels) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(c.pixels))
	}
	c.pixels[index] = px
	return nil
}

func (c *Console) Flush() error {
	var b strings.Builder
	b.WriteString("\r[")
	for _, px := range c.pixels {
		fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm█", px.R, px.G, px.B)
	}
	b.WriteString("\x1b[0m]")
	_, err := io.WriteString(c.out, b.String())
	return err
}

func (c *Console) Clear() error {
	for i := range c.pixels {
		c.pixels[i] = pattern.RGB{}
	}
	return c.Flush()
}

func (c *Console) Close() error {
	return c.Clear()
}
