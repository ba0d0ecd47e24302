package main

import (
	"github.com/aretw0/pathway/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Start the HTTP server",
	Long:  `Exposes the topology, the Mermaid graph, stored runs and Prometheus metrics over HTTP.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		simulate, _ := cmd.Flags().GetBool("simulate")
		return cli.Serve(cmd.Context(), cli.ServeOptions{
			EngineOptions: engineOptions(cmd, args),
			Addr:          ":" + port,
			Simulate:      simulate,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addSimulationFlags(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("simulate", false, "Run the project once before serving")
}
