package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/nomograph/pkg/definition"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [nomogram]",
	Short: "Write a nomogram definition as TOML",
	Long: `Write the definition of a catalog entry, of one definition of a file or of
an --equation as a TOML definition file, ready to be edited and passed
back to any command.

Examples:
  nomo export bmi -o bmi.toml
  nomo export -e "P = U I" --range U=1:20 --range I=0.5:5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addDefinitionFlags(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default is stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	def, err := resolveDefinition(args)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := definition.EncodeTOML(w, def); err != nil {
		return fmt.Errorf("failed to encode %q: %w", def.Name, err)
	}
	if exportOutput != "" {
		log.WithField("file", exportOutput).Info("definition written")
	}
	return nil
}
