package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	tressimage "github.com/haircolorlab/tress/internal/image"
	"github.com/haircolorlab/tress/internal/remap"
	"github.com/haircolorlab/tress/internal/sample"
)

var (
	// Remap command flags
	remapShade   string
	remapSample  int
	remapOutput  string
	remapWorkers int
)

// remapCmd represents the remap command
var remapCmd = &cobra.Command{
	Use:   "remap <image> <mask> <csv>",
	Short: "Recolour the hair region of an image to a sample's cluster colours",
	Long: `Recolour every hair pixel of an image to the nearest of a sample's
three measured cluster colours. Hair pixels are those with a nonzero mask
value; the mask must match the image dimensions exactly.

By default the most balanced sample of the CSV is used; --sample selects a
specific one by its 1-based position.

Examples:
  # Remap with the most balanced sample
  tress remap hair.png hair_mask.png 1001.csv -o remapped.png

  # Remap with the third sample of shade 77
  tress remap --shade 77 --sample 3 hair.png hair_mask.png 1001.csv -o remapped.png`,
	Args: cobra.ExactArgs(3),
	RunE: runRemap,
}

func init() {
	remapCmd.Flags().StringVar(&remapShade, "shade", "", "only consider samples for this shade")
	remapCmd.Flags().IntVarP(&remapSample, "sample", "s", 0, "1-based sample to use (0 = most balanced)")
	remapCmd.Flags().StringVarP(&remapOutput, "output", "o", "remapped.png", "output PNG file")
	remapCmd.Flags().IntVar(&remapWorkers, "workers", 0, "parallel pixel workers (0 = one per CPU)")
}

// runRemap executes the remap command.
func runRemap(cmd *cobra.Command, args []string) error {
	imagePath, maskPath, csvPath := args[0], args[1], args[2]
	logger := newLogger(cmd)

	for _, path := range []string{imagePath, maskPath} {
		if err := tressimage.ValidateImagePath(path); err != nil {
			return fmt.Errorf("invalid image path: %w", err)
		}
	}

	// Compare headers before decoding whole images; mismatched masks are
	// the common operator error.
	iw, ih, err := tressimage.GetImageDimensions(imagePath)
	if err != nil {
		return err
	}
	mw, mh, err := tressimage.GetImageDimensions(maskPath)
	if err != nil {
		return err
	}
	if iw != mw || ih != mh {
		return fmt.Errorf("image and mask do not match: image is %dx%d, mask is %dx%d", iw, ih, mw, mh)
	}

	rows, err := loadRows(csvPath, remapShade, 0)
	if err != nil {
		return err
	}

	var row sample.Row
	if remapSample > 0 {
		row, err = sample.SelectByIndex(rows, remapSample-1)
	} else {
		row, err = sample.SelectMostBalanced(rows)
	}
	if err != nil {
		return fmt.Errorf("failed to select sample: %w", err)
	}
	logger.Debug("selected sample",
		"filename", row.Filename,
		"balance", fmt.Sprintf("%.2f", sample.BalanceScore(row.Proportions())))

	loader := tressimage.NewFileLoader()
	img, err := loader.Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	mask, err := loader.Load(maskPath)
	if err != nil {
		return fmt.Errorf("failed to load mask: %w", err)
	}

	opts := []remap.Option{remap.WithLogger(logger)}
	if remapWorkers > 0 {
		opts = append(opts, remap.WithWorkers(remapWorkers))
	}

	remapped, err := remap.NewRemapper(opts...).Remap(img, mask, row)
	if err != nil {
		var dim *remap.DimensionMismatchError
		if errors.As(err, &dim) {
			return fmt.Errorf("image and mask do not match: %w", err)
		}
		return err
	}

	if err := tressimage.SavePNG(remapOutput, remapped); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", remapOutput)
	return nil
}
