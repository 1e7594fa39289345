package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haircolorlab/tress/internal/mapping"
)

var (
	// Swatch command flags
	swatchShadesPath     string
	swatchCategoriesPath string
)

// swatchCmd represents the swatch command
var swatchCmd = &cobra.Command{
	Use:   "swatch <respondent> <shade>",
	Short: "Resolve the swatch for a respondent and shade",
	Long: `Resolve which swatch image belongs to a respondent and shade using the
two-step reference mapping: the respondent's hair category (dark, medium or
light) selects which shade-number column of the swatch mapping applies.

Examples:
  tress swatch 1001 77
  tress swatch --shades-mapping data/shades_mapping.csv --categories data/hair_category.csv 1001 77`,
	Args: cobra.ExactArgs(2),
	RunE: runSwatch,
}

func init() {
	swatchCmd.Flags().StringVar(&swatchShadesPath, "shades-mapping", "data/shades_mapping.csv", "shades mapping CSV file")
	swatchCmd.Flags().StringVar(&swatchCategoriesPath, "categories", "data/hair_category.csv", "respondent category CSV file")
}

// runSwatch executes the swatch command.
func runSwatch(cmd *cobra.Command, args []string) error {
	respondentID, shadeID := args[0], args[1]
	logger := newLogger(cmd)

	cache := mapping.New(swatchShadesPath, swatchCategoriesPath)
	if err := cache.Load(); err != nil {
		return fmt.Errorf("failed to load mappings: %w", err)
	}

	info, err := cache.RespondentInfo(respondentID)
	if err != nil {
		return err
	}
	logger.Debug("respondent info",
		"respondent", respondentID,
		"hair_tone", info.HairTone,
		"skin_tone_cluster", info.SkinToneCluster)

	swatch, err := cache.Swatch(respondentID, shadeID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "swatch:    %s\n", swatch.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "category:  %s\n", swatch.Category)
	fmt.Fprintf(cmd.OutOrStdout(), "filename:  %s\n", swatch.Filename)
	if info.SkinToneCluster != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "skin tone: %s\n", info.SkinToneCluster)
	}
	return nil
}
