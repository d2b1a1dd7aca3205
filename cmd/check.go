package cmd

import (
	"github.com/huangsam/germtrack/core"
	"github.com/huangsam/germtrack/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD quality gating.
var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Enforce germinability thresholds (fails on violations)",
	Long: `Analyze a trial and fail with a non-zero exit code when any treatment's mean
germinability (G%) is below its threshold, or when any replicate could not be
analyzed.

Thresholds come from the config file (thresholds.germinability and
thresholds.treatments) or from --threshold, which takes precedence.

Default threshold: 0.0 (only malformed replicates fail the check)

Examples:
  # Require 80% germination everywhere
  germtrack check trial.yaml --threshold 80

  # Require 80% overall, but 90% for the control
  germtrack check trial.yaml --threshold "80,Control:90"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCheck(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Germination check failed", err)
		}
	},
}
