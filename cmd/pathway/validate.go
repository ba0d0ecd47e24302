package main

import (
	"github.com/aretw0/pathway/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate the project topology and policies",
	Long:  `Checks reachability from the start bubble, missing or unknown policy entries and policy targets without an edge.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(engineOptions(cmd, args), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
