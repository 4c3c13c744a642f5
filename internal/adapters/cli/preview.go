package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	swarmQueries "github.com/andrescamacho/swarm-go/internal/application/swarm/queries"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/pkg/utils"
)

// NewPreviewCommand creates the preview command
func NewPreviewCommand() *cobra.Command {
	var (
		width, height int
		terrainSeed   int64
		resourceSeed  int64
		resources     int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a generated world without agents",
		Long: `Generate the world for the configured (or given) size and seeds and print it.
The same seeds always produce the same world.

Examples:
  swarm preview
  swarm preview --width 60 --height 20 --terrain-seed 7 --resources 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			sim := a.cfg.Simulation
			query := &swarmQueries.PreviewWorldQuery{
				Width:         sim.Width,
				Height:        sim.Height,
				TerrainSeed:   sim.TerrainSeed,
				ResourceSeed:  sim.ResourceSeed,
				ResourceCount: sim.ResourceCount,
			}
			changed := cmd.Flags().Changed
			if changed("width") {
				query.Width = width
			}
			if changed("height") {
				query.Height = height
			}
			if changed("terrain-seed") {
				query.TerrainSeed = terrainSeed
			}
			if changed("resource-seed") {
				query.ResourceSeed = resourceSeed
			}
			if changed("resources") {
				query.ResourceCount = resources
			}

			resp, err := a.mediator.Send(a.context(context.Background()), query)
			if err != nil {
				return err
			}
			preview := resp.(*swarmQueries.PreviewWorldResponse)

			fmt.Print(preview.Frame)
			fmt.Printf("\n%dx%d  terrain seed %d  resource seed %d\n", query.Width, query.Height, query.TerrainSeed, query.ResourceSeed)
			fmt.Printf("Station center: %s\n", preview.StationCenter)
			fmt.Printf("Walkable tiles: %d (%.1f%% of grid), reachable from station: %d\n",
				preview.Walkable,
				utils.Percent(float64(preview.Walkable), float64(query.Width*query.Height)),
				preview.Reachable)

			types := make([]shared.ResourceType, 0, len(preview.Resources))
			for t := range preview.Resources {
				types = append(types, t)
			}
			sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
			for _, t := range types {
				fmt.Printf("  %-14s %d deposits\n", t, preview.Resources[t])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Grid width")
	cmd.Flags().IntVar(&height, "height", 0, "Grid height")
	cmd.Flags().Int64Var(&terrainSeed, "terrain-seed", 0, "Terrain noise seed")
	cmd.Flags().Int64Var(&resourceSeed, "resource-seed", 0, "Resource placement seed")
	cmd.Flags().IntVar(&resources, "resources", 0, "Number of deposits")

	return cmd
}
