package main

import (
	"fmt"
	"os"

	"github.com/aretw0/pathway/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathway",
	Short: "Pathway is an agent-based care pathway simulator",
	Long: `Pathway moves a population of agents through a graph of bubbles
according to per-bubble routing policies, and reports where they end up.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project file or directory containing pathway.yaml")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
}

// engineOptions reads the flags shared by every project command.
// A positional argument is used as the project path unless --dir was set.
func engineOptions(cmd *cobra.Command, args []string) cli.EngineOptions {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	opts := cli.EngineOptions{
		ProjectPath: dir,
		Log:         cli.LogOptions{Level: level, Format: format},
	}

	if cmd.Flags().Lookup("seed") != nil && cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		opts.Seed = &seed
	}
	if cmd.Flags().Lookup("agents") != nil && cmd.Flags().Changed("agents") {
		agents, _ := cmd.Flags().GetInt("agents")
		opts.Agents = &agents
	}
	if cmd.Flags().Lookup("horizon") != nil && cmd.Flags().Changed("horizon") {
		horizon, _ := cmd.Flags().GetFloat64("horizon")
		opts.Horizon = &horizon
	}
	if cmd.Flags().Lookup("max-events") != nil && cmd.Flags().Changed("max-events") {
		maxEvents, _ := cmd.Flags().GetInt("max-events")
		opts.MaxEvents = &maxEvents
	}
	return opts
}

// addSimulationFlags registers the overrides for project settings.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", 0, "Random seed (overrides the project seed)")
	cmd.Flags().Int("agents", 0, "Number of agents to create (overrides the project)")
	cmd.Flags().Float64("horizon", 0, "Stop before events later than this time (0 = none)")
	cmd.Flags().Int("max-events", 0, "Stop after this many events (0 = none)")
}
