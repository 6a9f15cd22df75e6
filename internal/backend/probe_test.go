package backend

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStrip_RejectsInvalidPixelCount(t *testing.T) {
	if _, err := NewStrip(Config{PixelCount: 0}); err == nil {
		t.Error("NewStrip() with zero pixels should return error")
	}
}

func TestStrip_BitExpansionLUT(t *testing.T) {
	s := &Strip{}
	s.buildLUT()

	// 0x00 -> eight '100' groups, 0xFF -> eight '110' groups.
	if s.lut[0x00] != [3]byte{0x92, 0x49, 0x24} {
		t.Errorf("lut[0x00] = %#v, want {0x92, 0x49, 0x24}", s.lut[0x00])
	}
	if s.lut[0xFF] != [3]byte{0xDB, 0x6D, 0xB6} {
		t.Errorf("lut[0xFF] = %#v, want {0xDB, 0x6D, 0xB6}", s.lut[0xFF])
	}
}

func TestConfig_BrightnessDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero becomes full", 0, 1},
		{"above ceiling becomes full", 1.5, 1},
		{"valid passes through", 0.3, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Config{Brightness: tt.in}).brightness(); got != tt.want {
				t.Errorf("brightness() = %v, want %v", got, tt.want)
			}
		})
	}
}
