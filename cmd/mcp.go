package cmd

import (
	"github.com/huangsam/germtrack/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the germtrack MCP server",
	Long: `Launch an MCP server over stdio that lets agents analyze germination trials.

Tools:
  analyze_germination    - Full result bundle for an inline trial document
  get_germination_curves - Mean germination curve per treatment
  check_germination      - Germinability gate with per-treatment overrides
  describe_parameters    - Formulas and definitions of every index`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
