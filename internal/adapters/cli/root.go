package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swarm",
		Short: "Swarm - cooperative agents mapping a shared world",
		Long: `Swarm runs explorer, collector and scientist agents on a generated grid.
Agents roam on their own goroutines and periodically dock at the central
station, where their private maps are fused into the station's global map.

Examples:
  swarm run
  swarm run --duration 30s --explorers 4 --fog
  swarm preview --width 60 --height 20 --terrain-seed 7
  swarm runs list
  swarm runs logs sim-90x15-a3f8e2b1 --level warning
  swarm config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: swarm.yaml in ., ./configs or /etc/swarm)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewPreviewCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
