// main is the entry point for the germtrack CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/germtrack/cmd"
	"github.com/huangsam/germtrack/internal/iocache"
)

// main wires the global history manager into the command tree and runs it.
func main() {
	cmd.SetHistoryManager(iocache.Manager)

	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Warning:", stopErr)
	}
	iocache.CloseStores()

	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
