package pattern

import (
	"testing"
	"time"
)

func TestRender_PulseEnvelope(t *testing.T) {
	spec := Pulse(RGB{R: 0, G: 255, B: 0}, time.Second)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantG   uint8
	}{
		{"start dark", 0, 0},
		{"peak at half duration", 500 * time.Millisecond, 255},
		{"dark again at full duration", time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Render(spec, tt.elapsed, 8)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if buf[0].G != tt.wantG {
				t.Errorf("green channel = %d, want %d", buf[0].G, tt.wantG)
			}
			if buf[0].R != 0 || buf[0].B != 0 {
				t.Errorf("unexpected non-green channels: %+v", buf[0])
			}
			for i := 1; i < len(buf); i++ {
				if buf[i] != buf[0] {
					t.Errorf("pixel %d = %+v, want uniform %+v", i, buf[i], buf[0])
				}
			}
		})
	}
}

func TestRender_StatusIdempotent(t *testing.T) {
	c := RGB{R: 255, G: 0, B: 0}
	spec := Status(c)

	for _, elapsed := range []time.Duration{0, time.Second, time.Hour} {
		buf, err := Render(spec, elapsed, 16)
		if err != nil {
			t.Fatalf("Render() error at %v: %v", elapsed, err)
		}
		for i, px := range buf {
			if px != c {
				t.Fatalf("pixel %d = %+v at %v, want %+v", i, px, elapsed, c)
			}
		}
	}

	if Finished(spec, 24*time.Hour) {
		t.Error("status pattern must never finish on its own")
	}
}

func TestRender_RainbowPeriodicity(t *testing.T) {
	speed := 0.5
	spec := Rainbow(time.Minute, speed)

	// One full hue cycle takes 1/speed seconds; pixel 0 must repeat.
	a, err := Render(spec, 500*time.Millisecond, 10)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	b, err := Render(spec, 500*time.Millisecond+2*time.Second, 10)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if a[0] != b[0] {
		t.Errorf("pixel 0 hue did not repeat after one cycle: %+v vs %+v", a[0], b[0])
	}
}

func TestRender_RainbowGradient(t *testing.T) {
	buf, err := Render(Rainbow(time.Second, 1), 0, 12)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	uniform := true
	for i := 1; i < len(buf); i++ {
		if buf[i] != buf[0] {
			uniform = false
			break
		}
	}
	if uniform {
		t.Error("rainbow frame is a solid fill, want a gradient across pixels")
	}
}

func TestRender_FlashCadence(t *testing.T) {
	spec := Flash(RGB{R: 255, G: 0, B: 0}, 3, 200*time.Millisecond)

	// Sample the middle of every half-phase: on, off, on, off, on, off.
	wantOn := []bool{true, false, true, false, true, false}
	for i, want := range wantOn {
		elapsed := time.Duration(i)*200*time.Millisecond + 100*time.Millisecond
		buf, err := Render(spec, elapsed, 4)
		if err != nil {
			t.Fatalf("Render() error at %v: %v", elapsed, err)
		}
		on := buf[0].R == 255
		if on != want {
			t.Errorf("at %v on = %v, want %v", elapsed, on, want)
		}
	}

	if Finished(spec, 1199*time.Millisecond) {
		t.Error("flash finished before 3 full on/off cycles")
	}
	if !Finished(spec, 1200*time.Millisecond) {
		t.Error("flash not finished after 3 full on/off cycles")
	}
}

func TestRender_ChannelsInRangeAtBoundaries(t *testing.T) {
	specs := []Spec{
		Pulse(RGB{R: 10, G: 200, B: 255}, time.Second),
		Rainbow(time.Second, 2),
		Flash(RGB{R: 255, G: 255, B: 255}, 2, 100*time.Millisecond),
		Status(RGB{R: 1, G: 2, B: 3}),
	}

	for _, spec := range specs {
		for _, elapsed := range []time.Duration{0, spec.Duration} {
			buf, err := Render(spec, elapsed, 8)
			if err != nil {
				t.Fatalf("Render(%s) error at %v: %v", spec.Kind, elapsed, err)
			}
			if len(buf) != 8 {
				t.Fatalf("Render(%s) buffer length = %d, want 8", spec.Kind, len(buf))
			}
		}
	}
}

func TestRender_InvalidPixelCount(t *testing.T) {
	if _, err := Render(Status(Red), 0, 0); err == nil {
		t.Error("Render() with zero pixels should return error")
	}
}

func TestHSV_PrimaryColors(t *testing.T) {
	tests := []struct {
		name string
		h    float64
		want RGB
	}{
		{"red", 0, RGB{255, 0, 0}},
		{"green", 1.0 / 3.0, RGB{0, 255, 0}},
		{"blue", 2.0 / 3.0, RGB{0, 0, 255}},
		{"red wrap", 1.0, RGB{255, 0, 0}},
		{"red negative wrap", -1.0, RGB{255, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSV(tt.h, 1, 1); got != tt.want {
				t.Errorf("HSV(%v, 1, 1) = %+v, want %+v", tt.h, got, tt.want)
			}
		})
	}
}

func TestScale_Clamps(t *testing.T) {
	c := RGB{R: 100, G: 200, B: 255}
	if got := c.Scale(-1); got != (RGB{}) {
		t.Errorf("Scale(-1) = %+v, want black", got)
	}
	if got := c.Scale(2); got != c {
		t.Errorf("Scale(2) = %+v, want unchanged", got)
	}
	if got := c.Scale(0.5); got.G != 100 {
		t.Errorf("Scale(0.5).G = %d, want 100", got.G)
	}
}
