// Package colour provides colorimetric conversions between CIE L*a*b*,
// cylindrical LCh and sRGB for hair-colour measurement data.
package colour

import (
	"fmt"
	"math"
)

// D65 reference white (2° observer), the illuminant the measurement rigs
// calibrate against.
const (
	whiteX = 0.95047
	whiteY = 1.00000
	whiteZ = 1.08883
)

// CIE constants for the inverse f function. Using the exact rational forms
// avoids the 7.787 shortcut that drifts near the dark cutoff.
const (
	cieEpsilon = 216.0 / 24389.0 // (6/29)^3
	cieKappa   = 24389.0 / 27.0  // (29/3)^3
)

// LCh is the cylindrical form of Lab: Lightness, Chroma and hue angle in
// degrees within [0, 360).
type LCh struct {
	L float64
	C float64
	H float64
}

// ConversionError reports a Lab triplet that cannot be converted.
type ConversionError struct {
	L, A, B float64
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid Lab triplet (%v, %v, %v)", e.L, e.A, e.B)
}

func labValid(l, a, b float64) bool {
	for _, v := range []float64{l, a, b} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LabToRGB converts a Lab triplet to an 8-bit sRGB colour via CIEXYZ.
// Out-of-gamut channels are clipped to [0, 255]. Returns a ConversionError
// for NaN or infinite inputs.
func LabToRGB(l, a, b float64) (RGB, error) {
	if !labValid(l, a, b) {
		return RGB{}, &ConversionError{L: l, A: a, B: b}
	}

	x, y, z := labToXYZ(l, a, b)

	// XYZ -> linear sRGB (IEC 61966-2-1 matrix, D65).
	rl := 3.2404542*x - 1.5371385*y - 0.4985314*z
	gl := -0.9692660*x + 1.8760108*y + 0.0415560*z
	bl := 0.0556434*x - 0.2040259*y + 1.0572252*z

	return RGB{
		R: encodeChannel(rl),
		G: encodeChannel(gl),
		B: encodeChannel(bl),
	}, nil
}

// LabToLCh converts Lab to its cylindrical LCh form. Chroma is sqrt(a²+b²)
// and hue is atan2(b, a) mapped into [0, 360). For a neutral axis colour
// (a=b=0) the hue is reported as 0.
func LabToLCh(l, a, b float64) (LCh, error) {
	if !labValid(l, a, b) {
		return LCh{}, &ConversionError{L: l, A: a, B: b}
	}

	c := math.Sqrt(a*a + b*b)
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}

	return LCh{L: l, C: c, H: h}, nil
}

// labToXYZ applies the CIE inverse companding to recover tristimulus values
// relative to the D65 white point.
func labToXYZ(l, a, b float64) (x, y, z float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	x = whiteX * invF(fx)
	if l > cieKappa*cieEpsilon {
		y = whiteY * fy * fy * fy
	} else {
		y = whiteY * l / cieKappa
	}
	z = whiteZ * invF(fz)
	return x, y, z
}

func invF(t float64) float64 {
	if t3 := t * t * t; t3 > cieEpsilon {
		return t3
	}
	return (116*t - 16) / cieKappa
}

// encodeChannel applies sRGB gamma encoding to one linear channel and
// quantises it to 8 bits.
func encodeChannel(v float64) uint8 {
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}

	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
