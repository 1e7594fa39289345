// Package cli provides the command-line interface for Tress.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/haircolorlab/tress/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tress",
	Short: "Hair-colour measurement analysis and remapping",
	Long: `Tress analyses per-respondent hair-colour measurements: it scores and
selects balanced samples, builds quantile-based representative grids over
LCh colour space, and remaps hair regions of an image to a sample's
measured cluster colours.

Measurement data arrives as colour-extraction CSV exports with three Lab
cluster colours and area proportions per sample.`,
	Version:      version.Short(),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Set version template
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(swatchCmd)
}

// newLogger builds the logger for one command invocation. Debug level when
// --verbose is set, silent otherwise.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := hclog.Off
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tress",
		Output: os.Stderr,
		Level:  level,
	})
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
