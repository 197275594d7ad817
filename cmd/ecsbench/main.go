// Command ecsbench stress-tests the scheduler's dependency builder and
// worker pool at scale: a large random system population over a shared
// component set, driven through cobra subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecsbench",
	Short: "Stress test for the ecs scheduler and dependency builder",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
