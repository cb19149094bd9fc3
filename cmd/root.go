package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ferrite-dev/ferrite/pkg/logging"
)

var logMode string

var rootCmd = &cobra.Command{
	Use:   "ferrite",
	Short: "Parametric structural modeling toolkit",
	Long: `ferrite - parametric structural geometry engine

A CLI for building structural assemblies (beams, plates, walls) from a
Lisp DSL, inspecting section profiles and properties, and meshing the
resulting solids.

Commands:
  section  - Parse a section designation and print its dimensions and
             derived properties
  eval     - Evaluate a model script and summarize the assembly
  version  - Print the version number`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		sync, err := logging.Init(logMode)
		if err != nil {
			return err
		}
		cobra.OnFinalize(sync)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "dev", "Logging mode (dev or prod)")
}
