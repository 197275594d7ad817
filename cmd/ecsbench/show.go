package main

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <report.yaml>",
	Short: "Print a report previously saved with 'run --out'",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		report, err := LoadReport(args[0])
		if err != nil {
			return err
		}
		return report.Generate(os.Stdout)
	},
}
