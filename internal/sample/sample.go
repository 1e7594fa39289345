// Package sample defines the measured hair-colour sample model and the
// selection helpers that operate over batches of samples.
package sample

import (
	"fmt"

	"github.com/haircolorlab/tress/internal/colour"
)

// ColorType selects which measured Lab triplet a derived value is computed
// from: the main hair body colour or the reflect highlight colour.
type ColorType string

const (
	ColorMain    ColorType = "main"
	ColorReflect ColorType = "reflect"
)

// Valid reports whether the colour type is one of the two measured kinds.
func (t ColorType) Valid() bool {
	return t == ColorMain || t == ColorReflect
}

// Cluster is one of the three dominant colours extracted from a hair sample
// region, with its area proportion as a percentage. Proportions tolerate
// measurement noise and need not sum to exactly 100.
type Cluster struct {
	Colour     colour.Lab
	Proportion float64
}

// Row is one measured sample for a respondent and shade. Rows are immutable
// after ingestion; every derived value (LCh points, palettes, bins) is
// recomputed from the row on demand.
type Row struct {
	Filename   string
	Shade      string
	Respondent float64 // RESP_FINAL
	Video      float64 // VIDEOS
	XShade     string  // XSHADE_S
	Region     int     // color_regions

	Clusters [3]Cluster

	Main    *colour.Lab
	Reflect *colour.Lab
}

// ClusterLabs returns the three cluster Lab colours in measurement order.
func (r Row) ClusterLabs() [3]colour.Lab {
	var labs [3]colour.Lab
	for i, c := range r.Clusters {
		labs[i] = c.Colour
	}
	return labs
}

// Proportions returns the three cluster area proportions in measurement order.
func (r Row) Proportions() [3]float64 {
	var p [3]float64
	for i, c := range r.Clusters {
		p[i] = c.Proportion
	}
	return p
}

// Colour returns the measured Lab triplet for the requested colour type.
func (r Row) Colour(t ColorType) (colour.Lab, error) {
	switch t {
	case ColorMain:
		if r.Main == nil {
			return colour.Lab{}, fmt.Errorf("sample %q has no main colour measurement", r.Filename)
		}
		return *r.Main, nil
	case ColorReflect:
		if r.Reflect == nil {
			return colour.Lab{}, fmt.Errorf("sample %q has no reflect colour measurement", r.Filename)
		}
		return *r.Reflect, nil
	default:
		return colour.Lab{}, fmt.Errorf("unknown colour type %q", t)
	}
}

// Palette converts the row's three Lab clusters to their sRGB remapping
// targets.
func (r Row) Palette() (colour.Palette, error) {
	return colour.PaletteFromLab(r.ClusterLabs())
}
