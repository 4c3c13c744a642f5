package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/swarm-go/internal/application/swarm"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/coordination"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/station"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// swarmContext holds state shared by the agent and station scenarios
type swarmContext struct {
	grid *world.Grid

	// explorer runtime scenarios
	runtime *swarm.AgentRuntime
	bus     *swarm.EventBus
	events  []agent.Event

	// collector scenarios
	collectors []*agent.Agent
	behavior   *agent.Collector
	outcomes   []agent.Outcome

	// station scenarios
	clock      *shared.MockClock
	station    *swarm.Station
	docking    *coordination.ChannelDockingCoordinator
	lastMerge  station.MergeResult
	stationErr error
}

// InitializeSwarmScenario registers every swarm step definition
func InitializeSwarmScenario(sc *godog.ScenarioContext) {
	s := &swarmContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*s = swarmContext{}
		return ctx, nil
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		if s.docking != nil {
			_ = s.docking.Shutdown()
		}
		return ctx, nil
	})

	s.registerAgentSteps(sc)
	s.registerStationSteps(sc)
}

func parseTileInfo(kind string) (knowledge.TileInfo, error) {
	switch strings.ToLower(kind) {
	case "unknown":
		return knowledge.Unknown, nil
	case "walkable":
		return knowledge.Walkable, nil
	case "obstacle":
		return knowledge.Obstacle, nil
	default:
		return knowledge.TileInfo{}, fmt.Errorf("unsupported tile kind %q", kind)
	}
}

const defaultMergeTimeout = 2 * time.Second

func fastRuntimeConfig(mergeTimeout time.Duration) swarm.RuntimeConfig {
	return swarm.RuntimeConfig{
		MergeTimeout:   mergeTimeout,
		DockSleep:      time.Millisecond,
		ReturnSleepMin: time.Millisecond,
		ReturnSleepMax: 2 * time.Millisecond,
	}
}
