package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ferrite-dev/ferrite/pkg/sections"
	"github.com/ferrite-dev/ferrite/pkg/units"
)

var sectionUnits string

var sectionCmd = &cobra.Command{
	Use:   "section [designation]",
	Short: "Parse a section designation and print its properties",
	Long: `Parse a section designation and print its dimensions and derived
cross-section properties.

Designations follow the usual conventions: rolled profiles by catalogue
name (IPE400, HEB300, UNP200), parametric profiles by dimension list
(BG800x400x30x40, SHS200x10, TUB375x35, CIRC200, FB100x12.5). A
"/"-separated pair (IPE400/IPE300) designates a tapered member.

Examples:
  ferrite section IPE400
  ferrite section BG800x400x30x40 --units mm`,
	Args: cobra.ExactArgs(1),
	RunE: runSection,
}

func init() {
	rootCmd.AddCommand(sectionCmd)
	sectionCmd.Flags().StringVarP(&sectionUnits, "units", "u", "m", "Length unit for output (m or mm)")
}

func runSection(cmd *cobra.Command, args []string) error {
	unit, err := units.FromString(sectionUnits)
	if err != nil {
		return err
	}
	sec, taper, err := sections.FromString(args[0], unit)
	if err != nil {
		return err
	}

	printSection(sec, unit)
	if taper != nil {
		fmt.Println()
		fmt.Println("Tapered to:")
		printSection(taper, unit)
	}
	return nil
}

func printSection(sec *sections.Section, unit units.Unit) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Section:\t%s\n", sec.Name)
	fmt.Fprintf(w, "Category:\t%s\n", sec.Type())
	fmt.Fprintf(w, "Identifier:\t%s\n", sec.SecStr())
	fmt.Fprintf(w, "Units:\t%s\n", unit)
	fmt.Fprintln(w)

	switch sec.Type() {
	case sections.Tubular:
		fmt.Fprintf(w, "r:\t%g\n", sec.R())
		fmt.Fprintf(w, "wt:\t%g\n", sec.WT())
	case sections.Circular:
		fmt.Fprintf(w, "r:\t%g\n", sec.R())
	default:
		fmt.Fprintf(w, "h:\t%g\n", sec.H())
		fmt.Fprintf(w, "w_top:\t%g\n", sec.WTop())
		fmt.Fprintf(w, "w_btn:\t%g\n", sec.WBtn())
		fmt.Fprintf(w, "t_w:\t%g\n", sec.TW())
		fmt.Fprintf(w, "t_ftop:\t%g\n", sec.TFtop())
		fmt.Fprintf(w, "t_fbtn:\t%g\n", sec.TFbtn())
	}
	fmt.Fprintln(w)

	p := sec.Properties()
	fmt.Fprintf(w, "Ax:\t%.6g\n", p.Ax)
	fmt.Fprintf(w, "Ix:\t%.6g\n", p.Ix)
	fmt.Fprintf(w, "Iy:\t%.6g\n", p.Iy)
	fmt.Fprintf(w, "Iz:\t%.6g\n", p.Iz)
	fmt.Fprintf(w, "Wymin:\t%.6g\n", p.Wymin)
	fmt.Fprintf(w, "Wzmin:\t%.6g\n", p.Wzmin)
	fmt.Fprintf(w, "Cy:\t%.6g\n", p.Cy)
	fmt.Fprintf(w, "Cz:\t%.6g\n", p.Cz)
}
