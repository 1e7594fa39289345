// Package ingest normalises colour-extraction CSV exports into typed
// sample rows. Column names are fixed literal identifiers; normalisation
// happens once here and the rest of the tool never guesses at a schema.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/haircolorlab/tress/internal/colour"
	"github.com/haircolorlab/tress/internal/sample"
)

// Options controls which rows of an export are kept.
type Options struct {
	// Shade, when set, keeps only rows whose shade column matches.
	Shade string
	// Limit, when positive, caps the number of rows returned. The
	// measurement exports repeat samples; the dashboards only ever used
	// the first five per shade.
	Limit int
}

// Cluster colour columns, indexed 1..3 per the export schema.
var clusterColumns = []string{
	"L_1", "a_1", "b_1",
	"L_2", "a_2", "b_2",
	"L_3", "a_3", "b_3",
	"proportion_1", "proportion_2", "proportion_3",
}

// ReadRows parses a colour-extraction CSV into typed rows. The nine
// cluster Lab columns and three proportion columns are required; identity
// and main/reflect columns are optional and left zero-valued when absent.
func ReadRows(r io.Reader, opts Options) ([]sample.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range clusterColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var rows []sample.Row
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if opts.Shade != "" && row.Shade != opts.Shade {
			continue
		}
		rows = append(rows, row)
		if opts.Limit > 0 && len(rows) >= opts.Limit {
			break
		}
	}

	return rows, nil
}

// FilterRegion keeps only the rows belonging to one analysis region.
func FilterRegion(rows []sample.Row, region int) []sample.Row {
	var filtered []sample.Row
	for _, r := range rows {
		if r.Region == region {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func parseRow(record []string, cols map[string]int) (sample.Row, error) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	mustFloat := func(name string) (float64, error) {
		s, ok := get(name)
		if !ok || s == "" {
			return 0, fmt.Errorf("column %q is empty", name)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: cannot parse %q as a number", name, s)
		}
		return v, nil
	}

	var row sample.Row
	for i := 0; i < 3; i++ {
		l, err := mustFloat(fmt.Sprintf("L_%d", i+1))
		if err != nil {
			return sample.Row{}, err
		}
		a, err := mustFloat(fmt.Sprintf("a_%d", i+1))
		if err != nil {
			return sample.Row{}, err
		}
		b, err := mustFloat(fmt.Sprintf("b_%d", i+1))
		if err != nil {
			return sample.Row{}, err
		}
		p, err := mustFloat(fmt.Sprintf("proportion_%d", i+1))
		if err != nil {
			return sample.Row{}, err
		}
		row.Clusters[i] = sample.Cluster{
			Colour:     colour.Lab{L: l, A: a, B: b},
			Proportion: p,
		}
	}

	if s, ok := get("filename"); ok {
		row.Filename = s
	}
	if s, ok := get("shade"); ok {
		row.Shade = s
	}
	if s, ok := get("XSHADE_S"); ok {
		row.XShade = s
	}
	if s, ok := get("RESP_FINAL"); ok && s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return sample.Row{}, fmt.Errorf("column \"RESP_FINAL\": cannot parse %q as a number", s)
		}
		row.Respondent = v
	}
	if s, ok := get("VIDEOS"); ok && s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return sample.Row{}, fmt.Errorf("column \"VIDEOS\": cannot parse %q as a number", s)
		}
		row.Video = v
	}
	if s, ok := get("color_regions"); ok && s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return sample.Row{}, fmt.Errorf("column \"color_regions\": cannot parse %q as a number", s)
		}
		row.Region = int(v)
	}

	var err error
	row.Main, err = optionalLab(get, "main")
	if err != nil {
		return sample.Row{}, err
	}
	row.Reflect, err = optionalLab(get, "reflect")
	if err != nil {
		return sample.Row{}, err
	}

	return row, nil
}

// optionalLab parses the L_<kind>/a_<kind>/b_<kind> triplet when all three
// columns are present and non-empty.
func optionalLab(get func(string) (string, bool), kind string) (*colour.Lab, error) {
	names := []string{"L_" + kind, "a_" + kind, "b_" + kind}
	var vals [3]float64
	for i, name := range names {
		s, ok := get(name)
		if !ok || s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q: cannot parse %q as a number", name, s)
		}
		vals[i] = v
	}
	return &colour.Lab{L: vals[0], A: vals[1], B: vals[2]}, nil
}
