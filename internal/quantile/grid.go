// Package quantile selects representative hair-colour samples by
// partitioning LCh projections of a measurement batch into quantile grids.
//
// Two independent 2-D grids are built over the batch: Lightness-Chroma and
// Lightness-hue. Boundaries along each axis are data quantiles, so bins are
// equal-count rather than equal-width, and each occupied cell contributes
// the sample closest to that cell's centre.
package quantile

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/haircolorlab/tress/internal/colour"
	"github.com/haircolorlab/tress/internal/sample"
)

// ErrInsufficientData is returned when a grid is requested over an empty
// batch of rows.
var ErrInsufficientData = errors.New("no rows to build quantile grids from")

// InvalidGridSizeError reports a grid size below the minimum of 2.
type InvalidGridSizeError struct {
	Size int
}

func (e *InvalidGridSizeError) Error() string {
	return fmt.Sprintf("grid size must be at least 2, got %d", e.Size)
}

// Point is one row's position in LCh space, kept alongside the source Lab
// triplet for rendering and export.
type Point struct {
	Index      int        `json:"index"`
	Respondent float64    `json:"resp_final"`
	Video      float64    `json:"videos"`
	XShade     string     `json:"xshade_s,omitempty"`
	L          float64    `json:"L"`
	C          float64    `json:"C"`
	H          float64    `json:"h"`
	Lab        colour.Lab `json:"lab"`
}

// Bins holds the quantile boundary values per axis. Each slice has
// gridSize+1 entries; duplicate boundaries from low-cardinality data are
// kept as-is and simply describe cells that can never receive members.
type Bins struct {
	L []float64 `json:"L"`
	C []float64 `json:"C"`
	H []float64 `json:"h"`
}

// CellSample is the representative chosen for one occupied grid cell.
// Row and Col index the cell along the first (L) and second (C or h) axis.
type CellSample struct {
	Row          int        `json:"row"`
	Col          int        `json:"col"`
	Point        Point      `json:"point"`
	Sample       sample.Row `json:"-"`
	DistToCentre float64    `json:"dist_to_centre"`
}

// Result is the full output of a grid selection: the representatives of
// both grids, the boundary arrays, and the per-row LCh table.
type Result struct {
	LC        []CellSample     `json:"lc_samples"`
	LH        []CellSample     `json:"lh_samples"`
	Bins      Bins             `json:"bins"`
	Points    []Point          `json:"all_samples"`
	GridSize  int              `json:"grid_size"`
	ColorType sample.ColorType `json:"color_type"`
}

// BuildGrids partitions the rows into gridSize x gridSize quantile grids
// over the L-C and L-h projections of the colour type's LCh values, and
// selects the sample nearest each occupied cell's centre. Ties on distance
// go to the earliest row in input order.
func BuildGrids(rows []sample.Row, colorType sample.ColorType, gridSize int) (*Result, error) {
	if gridSize < 2 {
		return nil, &InvalidGridSizeError{Size: gridSize}
	}
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}
	if !colorType.Valid() {
		return nil, fmt.Errorf("unknown colour type %q", colorType)
	}

	points := make([]Point, len(rows))
	for i, r := range rows {
		lab, err := r.Colour(colorType)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		lch, err := colour.LabToLCh(lab.L, lab.A, lab.B)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		points[i] = Point{
			Index:      i,
			Respondent: r.Respondent,
			Video:      r.Video,
			XShade:     r.XShade,
			L:          lch.L,
			C:          lch.C,
			H:          lch.H,
			Lab:        lab,
		}
	}

	bins := Bins{
		L: boundaries(points, gridSize, func(p Point) float64 { return p.L }),
		C: boundaries(points, gridSize, func(p Point) float64 { return p.C }),
		H: boundaries(points, gridSize, func(p Point) float64 { return p.H }),
	}

	// Precompute bin assignments once per axis; the grouped passes below
	// then cost O(rows) each.
	lBin := make([]int, len(points))
	cBin := make([]int, len(points))
	hBin := make([]int, len(points))
	for i, p := range points {
		lBin[i] = assignBin(p.L, bins.L)
		cBin[i] = assignBin(p.C, bins.C)
		hBin[i] = assignBin(p.H, bins.H)
	}

	res := &Result{
		Bins:      bins,
		Points:    points,
		GridSize:  gridSize,
		ColorType: colorType,
	}
	res.LC = selectRepresentatives(rows, points, lBin, cBin, bins.L, bins.C, gridSize,
		func(p Point) (float64, float64) { return p.L, p.C })
	res.LH = selectRepresentatives(rows, points, lBin, hBin, bins.L, bins.H, gridSize,
		func(p Point) (float64, float64) { return p.L, p.H })

	return res, nil
}

// boundaries computes the gridSize+1 quantile cut points of one axis.
// Linear interpolation keeps boundaries stable on skewed data; the outer
// cut points are always the axis minimum and maximum.
func boundaries(points []Point, gridSize int, axis func(Point) float64) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = axis(p)
	}
	sort.Float64s(values)

	bounds := make([]float64, gridSize+1)
	for k := 0; k <= gridSize; k++ {
		bounds[k] = stat.Quantile(float64(k)/float64(gridSize), stat.LinInterp, values, nil)
	}
	return bounds
}

// assignBin places a value into a quantile bin. The lowest bin is closed on
// both ends; every later bin is half-open on the left and closed on the
// right. Scanning low to high means a value sitting on a duplicated
// boundary lands in the lowest eligible bin, so collapsed bins stay empty.
func assignBin(v float64, bounds []float64) int {
	if bounds[0] <= v && v <= bounds[1] {
		return 0
	}
	for i := 1; i < len(bounds)-1; i++ {
		if bounds[i] < v && v <= bounds[i+1] {
			return i
		}
	}
	// Boundaries are data quantiles, so every value falls inside them;
	// guard against float drift by clamping to the outer bins.
	if v < bounds[0] {
		return 0
	}
	return len(bounds) - 2
}

// selectRepresentatives picks, for every occupied cell of one 2-D grid, the
// row whose projected point is nearest the cell centre. Cells are emitted
// in row-major order.
func selectRepresentatives(rows []sample.Row, points []Point, aBin, bBin []int, aBounds, bBounds []float64, gridSize int, project func(Point) (float64, float64)) []CellSample {
	type cellKey struct{ a, b int }
	best := make(map[cellKey]CellSample)

	for i, p := range points {
		key := cellKey{aBin[i], bBin[i]}

		aCentre := (aBounds[key.a] + aBounds[key.a+1]) / 2
		bCentre := (bBounds[key.b] + bBounds[key.b+1]) / 2
		pa, pb := project(p)
		dist := math.Hypot(pa-aCentre, pb-bCentre)

		cur, ok := best[key]
		if !ok || dist < cur.DistToCentre {
			best[key] = CellSample{
				Row:          key.a,
				Col:          key.b,
				Point:        p,
				Sample:       rows[i],
				DistToCentre: dist,
			}
		}
	}

	selected := make([]CellSample, 0, len(best))
	for a := 0; a < gridSize; a++ {
		for b := 0; b < gridSize; b++ {
			if cs, ok := best[cellKey{a, b}]; ok {
				selected = append(selected, cs)
			}
		}
	}
	return selected
}
