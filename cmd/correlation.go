package cmd

import (
	"github.com/huangsam/germtrack/core"
	"github.com/huangsam/germtrack/internal/contract"
	"github.com/spf13/cobra"
)

// correlationCmd prints the index correlation matrices.
var correlationCmd = &cobra.Command{
	Use:   "correlation <input>",
	Short: "Show Pearson correlations between the germination indices.",
	Long: `Correlate every pair of germination indices across replicates.

With --correlation global (default) all analyzed replicates are pooled into one
matrix. With --correlation treatment one matrix is computed per treatment.
Pairs are built from replicates where both indices are defined; coefficients
that cannot be computed print as N/A.

Examples:
  # One matrix across the whole trial
  germtrack correlation trial.yaml

  # One matrix per treatment, as CSV
  germtrack correlation trial.yaml --correlation treatment --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCorrelation(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot compute correlations", err)
		}
	},
}
