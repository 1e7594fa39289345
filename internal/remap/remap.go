// Package remap recolours the hair region of an image using the nearest of
// a sample's three measured cluster colours.
package remap

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/haircolorlab/tress/internal/colour"
	"github.com/haircolorlab/tress/internal/sample"
)

// DimensionMismatchError reports an image and mask whose sizes differ.
// The remap call that produced it still returns the original image, so
// callers can fall back to displaying the unmodified input.
type DimensionMismatchError struct {
	ImageWidth, ImageHeight int
	MaskWidth, MaskHeight   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("image and mask size mismatch: %dx%d vs %dx%d",
		e.ImageWidth, e.ImageHeight, e.MaskWidth, e.MaskHeight)
}

// RemapError reports a remap that could not run at all, typically because
// the sample's cluster palette could not be converted. The original image
// is returned alongside it; a partially recoloured image is never produced.
type RemapError struct {
	Cause error
}

func (e *RemapError) Error() string {
	return fmt.Sprintf("remap failed: %v", e.Cause)
}

func (e *RemapError) Unwrap() error {
	return e.Cause
}

// Remapper recolours hair pixels to their nearest cluster colour.
type Remapper struct {
	workers int
	logger  hclog.Logger
}

// Option configures a Remapper.
type Option func(*Remapper)

// WithWorkers sets the number of parallel pixel-band workers.
func WithWorkers(n int) Option {
	return func(r *Remapper) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger used for progress output.
func WithLogger(l hclog.Logger) Option {
	return func(r *Remapper) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRemapper creates a Remapper. By default it uses one worker per CPU
// and no logging.
func NewRemapper(opts ...Option) *Remapper {
	r := &Remapper{
		workers: runtime.GOMAXPROCS(0),
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Remap converts the row's three Lab clusters to sRGB and recolours every
// hair pixel of img to the nearest cluster colour. On failure the original
// image is returned unchanged alongside the error.
func (r *Remapper) Remap(img, mask image.Image, row sample.Row) (image.Image, error) {
	palette, err := row.Palette()
	if err != nil {
		return img, &RemapError{Cause: err}
	}

	for i, c := range palette {
		lab := row.Clusters[i].Colour
		r.logger.Debug("cluster colour",
			"cluster", i+1,
			"lab", fmt.Sprintf("(%.1f, %.1f, %.1f)", lab.L, lab.A, lab.B),
			"rgb", c.String())
	}

	return r.RemapWithPalette(img, mask, palette)
}

// RemapWithPalette recolours every hair pixel of img to the nearest of the
// three palette colours by Euclidean RGB distance. Ties go to the lowest
// cluster index. Non-hair pixels are copied through untouched and the
// input image is never mutated.
//
// A pixel is hair when its mask pixel has any nonzero RGB channel. The
// measurement masks are nominally binary but carry anti-aliased edges;
// the permissive predicate keeps those edge pixels in the hair region.
func (r *Remapper) RemapWithPalette(img, mask image.Image, palette colour.Palette) (image.Image, error) {
	ib, mb := img.Bounds(), mask.Bounds()
	w, h := ib.Dx(), ib.Dy()

	if w != mb.Dx() || h != mb.Dy() {
		return img, &DimensionMismatchError{
			ImageWidth: w, ImageHeight: h,
			MaskWidth: mb.Dx(), MaskHeight: mb.Dy(),
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))

	// Pixels carry no cross-pixel dependency, so the image is split into
	// horizontal bands processed by independent workers.
	workers := min(r.workers, h)
	if workers < 1 {
		workers = 1
	}
	band := (h + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < h; start += band {
		end := min(start+band, h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			r.remapBand(img, mask, out, palette, y0, y1)
		}(start, end)
	}
	wg.Wait()

	r.logger.Debug("remapped image", "width", w, "height", h, "workers", workers)
	return out, nil
}

// remapBand processes the half-open pixel rows [y0, y1).
func (r *Remapper) remapBand(img, mask image.Image, out *image.RGBA, palette colour.Palette, y0, y1 int) {
	ib, mb := img.Bounds(), mask.Bounds()
	for y := y0; y < y1; y++ {
		for x := 0; x < ib.Dx(); x++ {
			px := colour.ToRGB(img.At(ib.Min.X+x, ib.Min.Y+y))
			if isHair(colour.ToRGB(mask.At(mb.Min.X+x, mb.Min.Y+y))) {
				px = palette[nearestCluster(px, palette)]
			}
			out.SetRGBA(x, y, color.RGBA{R: px.R, G: px.G, B: px.B, A: 255})
		}
	}
}

// isHair reports whether a mask pixel marks the hair region.
func isHair(m colour.RGB) bool {
	return m.R != 0 || m.G != 0 || m.B != 0
}

// nearestCluster returns the index of the palette colour closest to c in
// Euclidean RGB distance. The strict comparison keeps the lowest cluster
// index on ties.
func nearestCluster(c colour.RGB, palette colour.Palette) int {
	nearest := 0
	minDist := distSq(c, palette[0])
	for i := 1; i < len(palette); i++ {
		if d := distSq(c, palette[i]); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// distSq is the squared Euclidean distance between two RGB colours.
// Squared distance preserves the ordering, so the square root is skipped.
func distSq(a, b colour.RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
