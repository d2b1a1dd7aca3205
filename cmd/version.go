package cmd

import (
	"runtime"

	"github.com/huangsam/germtrack/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of germtrack.",
	Long: `Display version information including build details.

Shows:
- Release version and commit
- Build timestamp
- Go runtime and platform
- Number of germination indices computed

Useful when reporting bugs or comparing results across machines.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("germtrack CLI\n")
		cmd.Printf("  Version:  %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Runtime:  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  Indices:  %d\n", len(schema.AllParameters))
	},
}
