package colour

import (
	"errors"
	"math"
	"testing"
)

func TestLabToRGB(t *testing.T) {
	tests := []struct {
		name      string
		l, a, b   float64
		want      RGB
		tolerance int
	}{
		{
			name: "white",
			l:    100, a: 0, b: 0,
			want: RGB{R: 255, G: 255, B: 255},
		},
		{
			name: "black",
			l:    0, a: 0, b: 0,
			want: RGB{R: 0, G: 0, B: 0},
		},
		{
			name: "sRGB red",
			l:    53.2408, a: 80.0925, b: 67.2032,
			want:      RGB{R: 255, G: 0, B: 0},
			tolerance: 2,
		},
		{
			name: "sRGB green",
			l:    87.7347, a: -86.1827, b: 83.1793,
			want:      RGB{R: 0, G: 255, B: 0},
			tolerance: 2,
		},
		{
			name: "sRGB blue",
			l:    32.2970, a: 79.1875, b: -107.8602,
			want:      RGB{R: 0, G: 0, B: 255},
			tolerance: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LabToRGB(tt.l, tt.a, tt.b)
			if err != nil {
				t.Fatalf("LabToRGB(%v, %v, %v) returned error: %v", tt.l, tt.a, tt.b, err)
			}
			if !rgbClose(got, tt.want, tt.tolerance) {
				t.Errorf("LabToRGB(%v, %v, %v) = %v, want %v (tolerance %d)",
					tt.l, tt.a, tt.b, got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestLabToRGBNeutralAxis(t *testing.T) {
	// Colours on the neutral axis (a=b=0) must come out grey.
	for _, l := range []float64{10, 25, 50, 75, 90} {
		got, err := LabToRGB(l, 0, 0)
		if err != nil {
			t.Fatalf("LabToRGB(%v, 0, 0) returned error: %v", l, err)
		}
		if got.R != got.G || got.G != got.B {
			t.Errorf("LabToRGB(%v, 0, 0) = %v, want equal channels", l, got)
		}
	}
}

func TestLabToRGBInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		l, a, b float64
	}{
		{name: "NaN lightness", l: math.NaN(), a: 0, b: 0},
		{name: "NaN a", l: 50, a: math.NaN(), b: 0},
		{name: "positive infinity", l: 50, a: math.Inf(1), b: 0},
		{name: "negative infinity", l: 50, a: 0, b: math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LabToRGB(tt.l, tt.a, tt.b)
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Errorf("LabToRGB(%v, %v, %v) error = %v, want ConversionError", tt.l, tt.a, tt.b, err)
			}
		})
	}
}

func TestLabToLCh(t *testing.T) {
	tests := []struct {
		name    string
		l, a, b float64
		want    LCh
	}{
		{
			name: "neutral axis has zero chroma",
			l:    50, a: 0, b: 0,
			want: LCh{L: 50, C: 0, H: 0},
		},
		{
			name: "positive a is zero degrees",
			l:    50, a: 10, b: 0,
			want: LCh{L: 50, C: 10, H: 0},
		},
		{
			name: "negative a is 180 degrees",
			l:    50, a: -10, b: 0,
			want: LCh{L: 50, C: 10, H: 180},
		},
		{
			name: "positive b is 90 degrees",
			l:    50, a: 0, b: 10,
			want: LCh{L: 50, C: 10, H: 90},
		},
		{
			name: "negative b wraps to 270 degrees",
			l:    50, a: 0, b: -10,
			want: LCh{L: 50, C: 10, H: 270},
		},
		{
			name: "3-4-5 triangle",
			l:    62, a: 3, b: 4,
			want: LCh{L: 62, C: 5, H: 53.13010235415598},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LabToLCh(tt.l, tt.a, tt.b)
			if err != nil {
				t.Fatalf("LabToLCh(%v, %v, %v) returned error: %v", tt.l, tt.a, tt.b, err)
			}
			if !floatClose(got.L, tt.want.L) || !floatClose(got.C, tt.want.C) || !floatClose(got.H, tt.want.H) {
				t.Errorf("LabToLCh(%v, %v, %v) = %+v, want %+v", tt.l, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLabToLChHueRange(t *testing.T) {
	// Hue must land in [0, 360) for every quadrant.
	for _, ab := range [][2]float64{{5, 5}, {-5, 5}, {-5, -5}, {5, -5}} {
		got, err := LabToLCh(50, ab[0], ab[1])
		if err != nil {
			t.Fatalf("LabToLCh(50, %v, %v) returned error: %v", ab[0], ab[1], err)
		}
		if got.H < 0 || got.H >= 360 {
			t.Errorf("LabToLCh(50, %v, %v) hue = %v, want [0, 360)", ab[0], ab[1], got.H)
		}
	}
}

func TestLabToLChInvalidInput(t *testing.T) {
	_, err := LabToLCh(math.NaN(), 0, 0)
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Errorf("LabToLCh(NaN, 0, 0) error = %v, want ConversionError", err)
	}
}

func rgbClose(got, want RGB, tolerance int) bool {
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}
	return diff(got.R, want.R) <= tolerance &&
		diff(got.G, want.G) <= tolerance &&
		diff(got.B, want.B) <= tolerance
}

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
