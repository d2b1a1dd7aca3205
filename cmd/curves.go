package cmd

import (
	"github.com/huangsam/germtrack/core"
	"github.com/huangsam/germtrack/internal/contract"
	"github.com/spf13/cobra"
)

// curvesCmd prints the aggregated germination curves.
var curvesCmd = &cobra.Command{
	Use:   "curves <input>",
	Short: "Show the mean germination curve of every treatment.",
	Long: `Aggregate the replicate curves of every treatment by day.

For each observation day the output lists how many replicates contributed and
the mean and standard deviation of the cumulative count, the daily count and
the cumulative proportion.

Examples:
  # Print the curves as tables
  germtrack curves trial.yaml

  # Export the curves to Parquet for plotting
  germtrack curves trial.yaml --output parquet --output-file curves.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCurves(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot compute germination curves", err)
		}
	},
}
