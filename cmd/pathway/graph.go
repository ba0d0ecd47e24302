package main

import (
	"github.com/aretw0/pathway/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Export the pathway as a Mermaid diagram",
	Long:  `Prints a Mermaid flowchart of the bubbles and their routes. With --run, the stored occupancy of that run is overlaid.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetString("run")
		return cli.Graph(cmd.Context(), cli.GraphOptions{
			EngineOptions: engineOptions(cmd, args),
			RunID:         runID,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("run", "", "Overlay the occupancy of a stored run")
}
