package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bundled nomograms",
	Long: `List the nomograms of the catalog with their ID, kind and equation.
The ID or the name can be passed to every command taking a nomogram.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, d := range nomogram.Catalog() {
		fmt.Fprintf(w, "%-22s %-8s %-22s %s\n", d.ID, d.Kind, nomogram.EquationLabel(d), d.Name)
		if verbose {
			for _, in := range []nomogram.Initializer{d.Input1, d.Input2} {
				fmt.Fprintf(w, "    %-8s [%s, %s] %s\n", in.Name,
					formatValue(in.Range.Start), formatValue(in.Range.End), in.Unit)
			}
		}
	}
	return nil
}
