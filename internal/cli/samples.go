package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/haircolorlab/tress/internal/colour"
	"github.com/haircolorlab/tress/internal/ingest"
	"github.com/haircolorlab/tress/internal/sample"
)

var (
	// Samples command flags
	samplesShade   string
	samplesLimit   int
	samplesBest    bool
	samplesPreview bool
)

// samplesCmd represents the samples command
var samplesCmd = &cobra.Command{
	Use:   "samples <csv>",
	Short: "List measured samples with their balance scores",
	Long: `List the samples of a colour-extraction CSV with their cluster
proportions and balance scores. The balance score is the total deviation
from an even three-way split; lower means better balanced.

Examples:
  # List all samples
  tress samples 1001.csv

  # List samples for one shade, with cluster colour previews
  tress samples --shade 77 --preview 1001.csv

  # Show only the most balanced sample
  tress samples --best 1001.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSamples,
}

func init() {
	samplesCmd.Flags().StringVar(&samplesShade, "shade", "", "only list samples for this shade")
	samplesCmd.Flags().IntVar(&samplesLimit, "limit", 0, "maximum number of samples to list (0 = all)")
	samplesCmd.Flags().BoolVar(&samplesBest, "best", false, "show only the most balanced sample")
	samplesCmd.Flags().BoolVar(&samplesPreview, "preview", false, "show cluster colour previews in terminal")
}

// runSamples executes the samples command.
func runSamples(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	rows, err := loadRows(args[0], samplesShade, samplesLimit)
	if err != nil {
		return err
	}
	logger.Debug("loaded samples", "path", args[0], "count", len(rows))

	if samplesBest {
		best, err := sample.SelectMostBalanced(rows)
		if err != nil {
			return fmt.Errorf("failed to select sample: %w", err)
		}
		printSample(cmd, best)
		return nil
	}

	table := NewTable([]string{"#", "Filename", "Proportions", "Balance"})
	for i, r := range rows {
		p := r.Proportions()
		table.AddRow([]string{
			fmt.Sprintf("%d", i+1),
			displayName(r, i),
			fmt.Sprintf("%.1f / %.1f / %.1f", p[0], p[1], p[2]),
			fmt.Sprintf("%.2f", sample.BalanceScore(p)),
		})
	}
	fmt.Fprint(cmd.OutOrStdout(), table.Render())

	if samplesPreview && term.IsTerminal(int(os.Stdout.Fd())) {
		for i, r := range rows {
			palette, err := r.Palette()
			if err != nil {
				logger.Debug("skipping preview", "sample", i+1, "error", err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n%s", displayName(r, i),
				colour.PalettePreview(palette, r.Proportions(), 8))
		}
	}

	return nil
}

// printSample prints one sample with its palette.
func printSample(cmd *cobra.Command, r sample.Row) {
	p := r.Proportions()
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", displayName(r, 0))
	fmt.Fprintf(cmd.OutOrStdout(), "proportions: %.1f / %.1f / %.1f (balance %.2f)\n",
		p[0], p[1], p[2], sample.BalanceScore(p))

	palette, err := r.Palette()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "cluster colours unavailable: %v\n", err)
		return
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), colour.PalettePreview(palette, p, 8))
		printMeasurement(cmd, "main", r.Main)
		printMeasurement(cmd, "reflect", r.Reflect)
	} else {
		for i, hex := range palette.Hex() {
			fmt.Fprintf(cmd.OutOrStdout(), "cluster %d: %s\n", i+1, hex)
		}
	}
}

// printMeasurement prints an optional main/reflect measurement colour.
func printMeasurement(cmd *cobra.Command, label string, lab *colour.Lab) {
	if lab == nil {
		return
	}
	rgb, err := colour.LabToRGB(lab.L, lab.A, lab.B)
	if err != nil {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", colour.FormatColourWithLabel(rgb, label, 8))
}

// displayName returns a readable sample name: the source filename when the
// export carries one, then the respondent/shade identifiers, then a
// positional label.
func displayName(r sample.Row, index int) string {
	if r.Filename != "" {
		return r.Filename
	}
	if r.Respondent > 0 {
		if resp, err := sample.FormatRespondentID(r.Respondent); err == nil {
			if shade, err := sample.FormatShadeName(r.Video); err == nil && r.Video > 0 {
				return resp + "_" + shade
			}
			return resp
		}
	}
	return fmt.Sprintf("Sample %d", index+1)
}

// loadRows opens and normalises a colour-extraction CSV.
func loadRows(path, shade string, limit int) ([]sample.Row, error) {
	file, err := os.Open(path) // #nosec G304 - User-specified CSV path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	rows, err := ingest.ReadRows(file, ingest.Options{Shade: shade, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}
