package cmd

import (
	"github.com/huangsam/germtrack/core"
	"github.com/huangsam/germtrack/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the full pipeline and prints every result.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <input>",
	Short: "Compute germination indices, summaries and correlations for a trial.",
	Long: `Read a trial document and compute the full result bundle.

For every replicate, the daily counts are turned into a cumulative germination
curve and the standard indices: G%, MGT, variance, SD, CVt, MGR, U, Z, Maguire
speed, T50 and the arc-sine transform of G%. Replicates are then summarized per
treatment and the indices are correlated, either across all replicates or per
treatment.

The input may be JSON or YAML; pass - to read it from standard input.
Replicates with malformed series are skipped and reported, never fatal.

Examples:
  # Analyze a trial with the default settings
  germtrack analyze trial.yaml

  # Use the germinated-seed basis for T50 and per-treatment correlations
  germtrack analyze trial.yaml --t50-basis germinated --correlation treatment

  # Write the bundle as JSON
  germtrack analyze trial.yaml --output json --output-file results.json

  # Pipe a document from another tool
  cat trial.json | germtrack analyze -`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot run germination analysis", err)
		}
	},
}
