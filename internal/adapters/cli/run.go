package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/swarm-go/internal/adapters/render"
	"github.com/andrescamacho/swarm-go/internal/application/logging"
	swarmCommands "github.com/andrescamacho/swarm-go/internal/application/swarm/commands"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/infrastructure/config"
	"github.com/andrescamacho/swarm-go/pkg/utils"
)

type runFlags struct {
	duration     time.Duration
	maxTicks     int
	explorers    int
	collectors   int
	scientists   int
	terrainSeed  int64
	resourceSeed int64
	noRender     bool
	fog          bool
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation",
		Long: `Generate a world, spawn the swarm and run until the duration elapses,
the tick limit is reached, every agent has shut down, or Ctrl-C is pressed.
A summary report is printed at the end.

Examples:
  swarm run
  swarm run --duration 1m --explorers 4 --collectors 0
  swarm run --ticks 500 --no-render
  swarm run --fog`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			applyRunFlags(cmd, flags, a.cfg)
			if err := config.ValidateConfig(a.cfg); err != nil {
				return err
			}

			simCfg, err := toSimulationConfig(a.cfg)
			if err != nil {
				return err
			}
			simCfg.MaxTicks = flags.maxTicks
			if simCfg.CollectorTarget == shared.ResourceSciencePoints {
				a.logger.Log(logging.LevelWarning, "Collectors targeting science points never deplete deposits", map[string]interface{}{
					"collector_target": a.cfg.Agents.CollectorTarget,
				})
			}

			renderInterval := a.cfg.Render.Interval
			if flags.noRender || !a.cfg.Render.Enabled {
				renderInterval = 0
			}

			ctx, stop := signal.NotifyContext(a.context(context.Background()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			resp, err := a.mediator.Send(ctx, &swarmCommands.RunSimulationCommand{
				Config:              simCfg,
				Duration:            a.cfg.Simulation.Duration,
				RenderInterval:      renderInterval,
				Fog:                 flags.fog,
				MetricsPollInterval: a.cfg.Metrics.PollInterval,
			})
			if err != nil {
				return err
			}

			printRunReport(resp.(*swarmCommands.RunSimulationResponse))
			return nil
		},
	}

	cmd.Flags().DurationVarP(&flags.duration, "duration", "d", 0, "Run length (0 runs until interrupted)")
	cmd.Flags().IntVar(&flags.maxTicks, "ticks", 0, "Stop after this many loop ticks (0 for no limit)")
	cmd.Flags().IntVar(&flags.explorers, "explorers", 0, "Number of explorers")
	cmd.Flags().IntVar(&flags.collectors, "collectors", 0, "Number of collectors")
	cmd.Flags().IntVar(&flags.scientists, "scientists", 0, "Number of scientists")
	cmd.Flags().Int64Var(&flags.terrainSeed, "terrain-seed", 0, "Terrain noise seed")
	cmd.Flags().Int64Var(&flags.resourceSeed, "resource-seed", 0, "Resource placement seed")
	cmd.Flags().BoolVar(&flags.noRender, "no-render", false, "Disable the terminal map")
	cmd.Flags().BoolVar(&flags.fog, "fog", false, "Draw the station's fused map instead of the true world")

	return cmd
}

// applyRunFlags overrides configuration with explicitly set flags
func applyRunFlags(cmd *cobra.Command, flags *runFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("duration") {
		cfg.Simulation.Duration = flags.duration
	}
	if changed("explorers") {
		cfg.Simulation.Explorers = flags.explorers
	}
	if changed("collectors") {
		cfg.Simulation.Collectors = flags.collectors
	}
	if changed("scientists") {
		cfg.Simulation.Scientists = flags.scientists
	}
	if changed("terrain-seed") {
		cfg.Simulation.TerrainSeed = flags.terrainSeed
	}
	if changed("resource-seed") {
		cfg.Simulation.ResourceSeed = flags.resourceSeed
	}
}

func printRunReport(resp *swarmCommands.RunSimulationResponse) {
	final := resp.Final
	stats := final.Stats

	fmt.Println()
	fmt.Printf("Run %s %s after %s (%d ticks)\n", resp.RunID, resp.Status, resp.Elapsed.Round(time.Millisecond), final.Tick)
	fmt.Printf("Station knowledge: %.1f%%\n", utils.Percent(final.Coverage, 1))
	fmt.Printf("Merges: %d (%d tiles applied)\n", stats.Merges, stats.TilesMerged)
	fmt.Printf("Science value: %d\n", stats.ScienceValue)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nRESOURCE\tCOLLECTED")
	for _, t := range shared.AllResourceTypes {
		fmt.Fprintf(w, "%s\t%d\n", t, stats.Collected[t])
	}
	w.Flush()

	kinds := make([]string, 0, len(stats.Events))
	counts := make(map[string]int, len(stats.Events))
	for kind, n := range stats.Events {
		kinds = append(kinds, string(kind))
		counts[string(kind)] = n
	}
	sort.Strings(kinds)

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nEVENT\tCOUNT")
	for _, kind := range kinds {
		fmt.Fprintf(w, "%s\t%d\n", kind, counts[kind])
	}
	w.Flush()

	if len(stats.ShutdownReasons) > 0 {
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nSHUTDOWN REASON\tAGENTS")
		for reason, n := range stats.ShutdownReasons {
			fmt.Fprintf(w, "%s\t%d\n", reason, n)
		}
		w.Flush()
	}

	if len(final.Agents) > 0 {
		fmt.Println()
		for _, line := range render.Summary(final.Agents, final.Coverage) {
			fmt.Println(line)
		}
	}
}
