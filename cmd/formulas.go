package cmd

import (
	"github.com/huangsam/germtrack/core"
	"github.com/huangsam/germtrack/internal/contract"
	"github.com/spf13/cobra"
)

// formulasCmd displays the formal definitions of all indices.
var formulasCmd = &cobra.Command{
	Use:   "formulas",
	Short: "Display the formulas and definitions of every germination index",
	Long: `Show the formula, unit and undefined cases of every germination index.

No input document is read - this is purely informational. The notation for
T50 follows --t50-basis.

Examples:
  # Show the definitions
  germtrack formulas

  # Export them as JSON
  germtrack formulas --output json --output-file formulas.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFormulas(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot display formulas", err)
		}
	},
}
