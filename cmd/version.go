package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ferrite",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ferrite v%s\n", Version)
		fmt.Println("Parametric structural modeling toolkit")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
