package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/swarm-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect swarm configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (SWARM_* prefix, e.g. SWARM_SIMULATION_WIDTH)
2. Config file (swarm.yaml)
3. Default values

Examples:
  swarm config show
  swarm config show --config ./configs/large.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			fmt.Println("Swarm Configuration")
			fmt.Println("===================")

			sim := cfg.Simulation
			fmt.Println("\nSimulation:")
			fmt.Printf("  Grid:             %dx%d\n", sim.Width, sim.Height)
			fmt.Printf("  Seeds:            terrain=%d resource=%d agent=%d\n", sim.TerrainSeed, sim.ResourceSeed, sim.AgentSeed)
			fmt.Printf("  Resources:        %d\n", sim.ResourceCount)
			fmt.Printf("  Agents:           explorers=%d collectors=%d scientists=%d\n", sim.Explorers, sim.Collectors, sim.Scientists)
			fmt.Printf("  Tick Interval:    %s\n", sim.TickInterval)
			fmt.Printf("  Duration:         %s\n", durationOrUnlimited(sim.Duration.String(), sim.Duration == 0))
			fmt.Printf("  Stall Timeout:    %s\n", sim.StallTimeout)

			fmt.Println("\nAgents:")
			printRole("Explorer", cfg.Agents.Explorer)
			printRole("Collector", cfg.Agents.Collector)
			printRole("Scientist", cfg.Agents.Scientist)
			fmt.Printf("  Return Sleep:     %s - %s\n", cfg.Agents.ReturnSleepMin, cfg.Agents.ReturnSleepMax)
			fmt.Printf("  Collector Target: %s\n", cfg.Agents.CollectorTarget)
			for _, m := range cfg.Agents.ScienceModules {
				fmt.Printf("  Module:           %s (+%d science, %d energy)\n", m.Name, m.ScienceBonus, m.EnergyCost)
			}

			fmt.Println("\nStation:")
			fmt.Printf("  Merge Timeout:    %s\n", cfg.Station.MergeTimeout)
			fmt.Printf("  Dock Sleep:       %s\n", cfg.Station.DockSleep)

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)
			fmt.Printf("  Journal:          %t\n", cfg.Logging.Journal)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Printf("  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

			fmt.Println("\nRender:")
			fmt.Printf("  Enabled:          %t\n", cfg.Render.Enabled)
			fmt.Printf("  Interval:         %s\n", cfg.Render.Interval)

			return nil
		},
	}
}

func printRole(name string, rc config.RoleConfig) {
	fmt.Printf("  %-10s        energy=%d low=%d move=%d action=%d capacity=%d sleep=%s-%s\n",
		name+":", rc.MaxEnergy, rc.LowEnergyThreshold, rc.MovementCost, rc.ActionCost, rc.MaxCapacity, rc.SleepMin, rc.SleepMax)
}

func durationOrUnlimited(s string, unlimited bool) string {
	if unlimited {
		return "until interrupted"
	}
	return s
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
