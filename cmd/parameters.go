package cmd

import (
	"github.com/huangsam/germtrack/core"
	"github.com/huangsam/germtrack/internal/contract"
	"github.com/spf13/cobra"
)

// parametersCmd prints per-replicate indices with treatment means.
var parametersCmd = &cobra.Command{
	Use:   "parameters <input>",
	Short: "Show the germination indices of every replicate.",
	Long: `Compute the germination indices of every replicate and list them per treatment,
followed by the treatment mean and standard deviation of each index.

Undefined indices (for example MGT when nothing germinated) print as N/A and are
excluded from the treatment statistics.

Examples:
  # Show the indices for all treatments
  germtrack parameters trial.yaml

  # Only the control treatment, with four decimals
  germtrack parameters trial.yaml --treatment Control --precision 4

  # Export to CSV for a spreadsheet
  germtrack parameters trial.yaml --output csv --output-file parameters.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteParameters(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot compute parameters", err)
		}
	},
}
