package pattern

import (
	"errors"
	"math"
	"testing"
	"time"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestParseRequest_Defaults(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Spec
	}{
		{
			name: "pulse with defaults",
			req:  Request{Type: "pulse", Color: &[3]int{0, 255, 0}},
			want: Pulse(Green, DefaultPulseDuration),
		},
		{
			name: "rainbow with defaults ignores color",
			req:  Request{Type: "rainbow", Color: &[3]int{1, 2, 3}},
			want: Rainbow(DefaultRainbowDuration, DefaultRainbowSpeed),
		},
		{
			name: "flash with defaults",
			req:  Request{Type: "flash", Color: &[3]int{0, 0, 255}},
			want: Flash(Blue, DefaultFlashCount, DefaultFlashInterval),
		},
		{
			name: "status",
			req:  Request{Type: "status", Color: &[3]int{255, 165, 0}},
			want: Status(Orange),
		},
		{
			name: "explicit fields win",
			req: Request{
				Type:     "flash",
				Color:    &[3]int{255, 0, 0},
				Flashes:  intPtr(5),
				Interval: floatPtr(0.1),
			},
			want: Flash(Red, 5, 100*time.Millisecond),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.req)
			if err != nil {
				t.Fatalf("ParseRequest() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRequest_Rejections(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown type", Request{Type: "strobe"}},
		{"negative flash count", Request{Type: "flash", Color: &[3]int{0, 0, 255}, Flashes: intPtr(-1)}},
		{"zero interval", Request{Type: "flash", Color: &[3]int{0, 0, 255}, Interval: floatPtr(0)}},
		{"missing color for pulse", Request{Type: "pulse"}},
		{"missing color for status", Request{Type: "status"}},
		{"channel above 255", Request{Type: "status", Color: &[3]int{0, 300, 0}}},
		{"negative channel", Request{Type: "pulse", Color: &[3]int{-1, 0, 0}}},
		{"negative duration", Request{Type: "pulse", Color: &[3]int{1, 1, 1}, Duration: floatPtr(-2)}},
		{"zero rainbow speed", Request{Type: "rainbow", Speed: floatPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.req)
			if err == nil {
				t.Fatal("ParseRequest() accepted malformed request")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v is not ErrValidation", err)
			}
		})
	}
}

func TestSpecValidate_Constructors(t *testing.T) {
	valid := []Spec{
		Pulse(Green, time.Second),
		Rainbow(3*time.Second, 0.5),
		Flash(Blue, 1, 150*time.Millisecond),
		Status(Cyan),
	}
	for _, spec := range valid {
		if err := spec.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", spec.Kind, err)
		}
	}

	if err := (Spec{Kind: "bogus"}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown kind error = %v, want ErrValidation", err)
	}
}

func TestSpecValidate_NonFiniteSpeed(t *testing.T) {
	// NaN compares false against everything, so a plain s.Speed <= 0
	// check would let it through.
	for _, speed := range []float64{math.NaN(), math.Inf(1)} {
		if err := Rainbow(3*time.Second, speed).Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("Validate() with speed %v = %v, want ErrValidation", speed, err)
		}
	}
}
