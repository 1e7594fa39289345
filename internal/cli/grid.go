package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haircolorlab/tress/internal/ingest"
	"github.com/haircolorlab/tress/internal/quantile"
	"github.com/haircolorlab/tress/internal/sample"
)

// formatFlag restricts --format to the supported export encodings.
type formatFlag string

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(*f) }

func (f *formatFlag) Set(v string) error {
	switch v {
	case "json", "csv":
		*f = formatFlag(v)
		return nil
	}
	return fmt.Errorf("unknown format %q (supported: json, csv)", v)
}

func (f *formatFlag) Type() string { return "format" }

var (
	// Grid command flags
	gridColorType string
	gridSize      int
	gridRegion    int
	gridFormat    formatFlag = "json"
	gridOutput    string
)

// gridCmd represents the grid command
var gridCmd = &cobra.Command{
	Use:   "grid <csv>",
	Short: "Select representative samples on quantile grids in LCh space",
	Long: `Partition the samples of one region into quantile-based L-C and L-h
grids and select, per occupied cell, the sample nearest the cell centre.

Bin boundaries are data quantiles along each axis, so bins hold equal
sample counts rather than equal value ranges. The JSON output carries the
selected cells of both grids, the boundary arrays, and the full per-sample
LCh table; the CSV output carries the selected cells only.

Examples:
  # 4x4 grids over the main colour of region 1
  tress grid --region 1 measurements.csv

  # 6x6 grids over the reflect colour, exported as JSON
  tress grid --region 2 --color-type reflect --grid-size 6 --format json measurements.csv

  # Write the selection to a file
  tress grid --region 1 --output grids.json --format json measurements.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runGrid,
}

func init() {
	gridCmd.Flags().StringVar(&gridColorType, "color-type", "main", "colour measurement to use (main, reflect)")
	gridCmd.Flags().IntVar(&gridSize, "grid-size", 4, "number of bins per grid axis (minimum 2)")
	gridCmd.Flags().IntVar(&gridRegion, "region", 0, "analysis region to select from (0 = all rows)")
	gridCmd.Flags().VarP(&gridFormat, "format", "f", "output format (json, csv)")
	gridCmd.Flags().StringVarP(&gridOutput, "output", "o", "", "output file (default: stdout)")
}

// runGrid executes the grid command.
func runGrid(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	rows, err := loadRows(args[0], "", 0)
	if err != nil {
		return err
	}
	if gridRegion != 0 {
		rows = ingest.FilterRegion(rows, gridRegion)
	}
	logger.Debug("selected rows", "region", gridRegion, "count", len(rows))

	result, err := quantile.BuildGrids(rows, sample.ColorType(gridColorType), gridSize)
	if err != nil {
		return fmt.Errorf("grid selection failed: %w", err)
	}
	logger.Debug("built grids",
		"lc_cells", len(result.LC), "lh_cells", len(result.LH), "grid_size", gridSize)

	out := cmd.OutOrStdout()
	if gridOutput != "" {
		file, err := os.Create(gridOutput) // #nosec G304 - User-specified output path, intended to be written
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if gridFormat == "csv" {
		return writeGridCSV(out, result)
	}
	return writeGridJSON(out, result)
}

func writeGridJSON(w io.Writer, result *quantile.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// writeGridCSV flattens the selected cells of both grids into one CSV.
func writeGridCSV(w io.Writer, result *quantile.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"grid", "row", "col", "resp_final", "videos", "L", "C", "h", "dist_to_centre"}); err != nil {
		return err
	}

	write := func(grid string, cells []quantile.CellSample) error {
		for _, c := range cells {
			record := []string{
				grid,
				strconv.Itoa(c.Row),
				strconv.Itoa(c.Col),
				strconv.FormatFloat(c.Point.Respondent, 'f', -1, 64),
				strconv.FormatFloat(c.Point.Video, 'f', -1, 64),
				strconv.FormatFloat(c.Point.L, 'f', 4, 64),
				strconv.FormatFloat(c.Point.C, 'f', 4, 64),
				strconv.FormatFloat(c.Point.H, 'f', 4, 64),
				strconv.FormatFloat(c.DistToCentre, 'f', 4, 64),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write("lc", result.LC); err != nil {
		return err
	}
	if err := write("lh", result.LH); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
