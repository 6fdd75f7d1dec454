package cmd

import (
	"github.com/OpenTraceLab/nomograph/internal/ui"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [nomogram]",
	Short: "Open the interactive nomogram viewer",
	Long: `Open a window showing the whole nomogram next to a detail view of one
scale and an editor per variable.

Drag a scale to move its value, pinch or scroll to zoom, long press or
right click a scale to fix it. Values and ranges can also be typed in the
editors; rejected edits are listed in the log pane.

Examples:
  nomo view
  nomo view inductive-reactance --slope chord
  nomo view -e "S = L W" --range L=1:10 --range W=1:10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	addDefinitionFlags(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	def, err := resolveDefinition(args)
	if err != nil {
		return err
	}
	log.WithField("nomogram", def.Name).Info("opening viewer")
	return ui.Run(conf, log, def)
}
