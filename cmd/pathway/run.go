package main

import (
	"github.com/aretw0/pathway/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Run a simulation and print a report",
	Long:  `Compiles the project, creates its population on the start bubble and runs it until no events remain.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetString("run-id")
		every, _ := cmd.Flags().GetInt("snapshot-every")
		tolerate, _ := cmd.Flags().GetBool("tolerate")
		report, _ := cmd.Flags().GetString("report")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		return cli.RunSimulation(cmd.Context(), cli.RunOptions{
			EngineOptions: engineOptions(cmd, args),
			RunID:         runID,
			SnapshotEvery: every,
			Tolerate:      tolerate,
			Report:        report,
			NoBanner:      noBanner,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addSimulationFlags(runCmd)

	runCmd.Flags().String("run-id", "", "Identifier for the run (generated when empty)")
	runCmd.Flags().Int("snapshot-every", 0, "Save a snapshot every n events (0 = final only)")
	runCmd.Flags().Bool("tolerate", false, "Record agent routing errors instead of aborting")
	runCmd.Flags().String("report", cli.ReportAuto, "Report format (auto, markdown, json)")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
}
