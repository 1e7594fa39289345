package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// ColourPreview returns an ANSI-coloured preview string for a colour.
// Width specifies how many characters wide the colour block should be.
// Uses background colour with spaces for a solid block.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	// Build ANSI background colour escape sequence.
	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)

	// Create solid colour block using spaces with background colour.
	block := strings.Repeat(" ", width)

	return bgColour + block + ansiReset
}

// PalettePreview renders the three cluster colours as adjacent blocks with
// their hex codes and area proportions, one line per cluster.
func PalettePreview(p Palette, proportions [3]float64, width int) string {
	var sb strings.Builder
	for i, c := range p {
		sb.WriteString(fmt.Sprintf("%s  cluster %d  %s  %5.1f%%\n",
			ColourPreview(c, width), i+1, c.Hex(), proportions[i]))
	}
	return sb.String()
}

// FormatColourWithLabel formats a colour with a label and preview.
func FormatColourWithLabel(rgb RGB, label string, width int) string {
	preview := ColourPreview(rgb, width)
	return fmt.Sprintf("%s  %-20s %s", preview, label, rgb.Hex())
}
