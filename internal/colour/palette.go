package colour

import (
	"fmt"
	"image/color"
)

// Lab is a CIE L*a*b* measurement. Values are immutable once measured.
type Lab struct {
	L float64 `json:"L"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// RGB represents an 8-bit sRGB colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255].
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Color converts an RGB value to a color.Color with full opacity.
func (rgb RGB) Color() color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Palette holds the three cluster colours used as remapping targets.
// Cluster identity follows measurement order: index 0 is cluster 1.
type Palette [3]RGB

// PaletteFromLab converts three measured Lab cluster colours to their sRGB
// remapping targets. The first unconvertible cluster aborts the whole
// palette; a partially usable palette is never returned.
func PaletteFromLab(clusters [3]Lab) (Palette, error) {
	var p Palette
	for i, c := range clusters {
		rgb, err := LabToRGB(c.L, c.A, c.B)
		if err != nil {
			return Palette{}, fmt.Errorf("cluster %d: %w", i+1, err)
		}
		p[i] = rgb
	}
	return p, nil
}

// Hex returns the palette as hex colour codes.
func (p Palette) Hex() []string {
	hex := make([]string, len(p))
	for i, c := range p {
		hex[i] = c.Hex()
	}
	return hex
}
