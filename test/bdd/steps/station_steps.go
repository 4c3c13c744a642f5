package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/swarm-go/internal/application/swarm"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/coordination"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/station"
)

var stationEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func (s *swarmContext) registerStationSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a station for a (\d+)x(\d+) grid$`, s.aStationForGrid)
	sc.Step(`^agent (\d+) reports \((\d+),(\d+)\) as "([^"]*)" at second (\d+)$`, s.agentReportsTile)
	sc.Step(`^the fused map should mark \((\d+),(\d+)\) as "([^"]*)"$`, s.theFusedMapShouldMark)
	sc.Step(`^the last merge should have applied (\d+) tile updates$`, s.theLastMergeShouldHaveApplied)

	sc.Step(`^a returning explorer docked at the station center with energy (\d+)$`, s.aReturningExplorerAtCenter)
	sc.Step(`^the explorer has mapped \((\d+),(\d+)\) as "([^"]*)"$`, s.theExplorerHasMapped)
	sc.Step(`^the explorer's report is merged by the station$`, s.theExplorersReportIsMerged)
	sc.Step(`^the explorer docks without a station reply$`, s.theExplorerDocksWithoutReply)
	sc.Step(`^the explorer should be fully recharged$`, s.theExplorerShouldBeFullyRecharged)
	sc.Step(`^the explorer should believe \((\d+),(\d+)\) is "([^"]*)"$`, s.theExplorerShouldBelieve)
	sc.Step(`^the explorer should be active again$`, s.theExplorerShouldBeActiveAgain)
}

func (s *swarmContext) aStationForGrid(width, height int) error {
	if err := s.anOpenGrid(width, height); err != nil {
		return err
	}
	s.clock = shared.NewMockClock(stationEpoch)
	s.docking = coordination.NewChannelDockingCoordinator(nil)
	s.station = swarm.NewStation(station.NewGlobalKnowledge(width, height), s.docking, s.clock)
	return nil
}

func (s *swarmContext) agentReportsTile(id, x, y int, kind string, second int) error {
	info, err := parseTileInfo(kind)
	if err != nil {
		return err
	}
	report := knowledge.New(s.grid.Width(), s.grid.Height())
	if err := report.Update(shared.Pt(x, y), info); err != nil {
		return err
	}

	s.clock.SetTime(stationEpoch.Add(time.Duration(second) * time.Second))
	s.lastMerge, s.stationErr = s.station.HandleArrival(context.Background(), agent.ArrivedAtStation{
		Agent:     agent.ID(id),
		Seq:       1,
		Knowledge: report,
	})
	return s.stationErr
}

func (s *swarmContext) theFusedMapShouldMark(x, y int, kind string) error {
	want, err := parseTileInfo(kind)
	if err != nil {
		return err
	}
	if got := s.station.Knowledge().Tile(shared.Pt(x, y)).Info; got.Kind != want.Kind {
		return fmt.Errorf("expected (%d,%d) to be %s, got %s", x, y, want, got)
	}
	return nil
}

func (s *swarmContext) theLastMergeShouldHaveApplied(expected int) error {
	if s.lastMerge.Applied != expected {
		return fmt.Errorf("expected %d applied updates, got %d", expected, s.lastMerge.Applied)
	}
	return nil
}

func (s *swarmContext) aReturningExplorerAtCenter(energy int) error {
	a := agent.New(1, agent.RoleExplorer, s.grid.StationCenter(), agent.DefaultRoleConfig(agent.RoleExplorer), s.grid.Width(), s.grid.Height())
	a.Status = agent.StatusReturning
	a.Energy.Current = uint(energy)
	if err := s.docking.Register(a.ID); err != nil {
		return err
	}

	s.bus = swarm.NewEventBus()
	s.runtime = swarm.NewAgentRuntime(a, agent.Explorer{}, s.grid, s.bus, s.docking, fastRuntimeConfig(defaultMergeTimeout), 11)
	return nil
}

func (s *swarmContext) theExplorerHasMapped(x, y int, kind string) error {
	info, err := parseTileInfo(kind)
	if err != nil {
		return err
	}
	return s.runtime.Agent().Knowledge.Update(shared.Pt(x, y), info)
}

// theExplorersReportIsMerged docks the explorer on its own goroutine and
// plays the station side on this one
func (s *swarmContext) theExplorersReportIsMerged() error {
	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- s.runtime.Step(ctx) }()

	deadline := time.Now().Add(defaultMergeTimeout)
	for time.Now().Before(deadline) {
		ev, ok := s.bus.TryReceive()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		arrival, ok := ev.(agent.ArrivedAtStation)
		if !ok {
			continue
		}
		s.clock.Advance(time.Minute)
		if s.lastMerge, s.stationErr = s.station.HandleArrival(ctx, arrival); s.stationErr != nil {
			return s.stationErr
		}
		return <-done
	}
	return fmt.Errorf("explorer never arrived at the station")
}

func (s *swarmContext) theExplorerDocksWithoutReply() error {
	s.runtime = swarm.NewAgentRuntime(s.runtime.Agent(), agent.Explorer{}, s.grid, s.bus, s.docking, fastRuntimeConfig(20*time.Millisecond), 11)
	return s.runtime.Step(context.Background())
}

func (s *swarmContext) theExplorerShouldBeFullyRecharged() error {
	if e := s.runtime.Agent().Energy; !e.IsFull() {
		return fmt.Errorf("expected full energy, got %s", e)
	}
	return nil
}

func (s *swarmContext) theExplorerShouldBelieve(x, y int, kind string) error {
	want, err := parseTileInfo(kind)
	if err != nil {
		return err
	}
	if got := s.runtime.Agent().Knowledge.Tile(shared.Pt(x, y)); got.Kind != want.Kind {
		return fmt.Errorf("expected the explorer to see (%d,%d) as %s, got %s", x, y, want, got)
	}
	return nil
}

func (s *swarmContext) theExplorerShouldBeActiveAgain() error {
	if status := s.runtime.Agent().Status; status != agent.StatusActive {
		return fmt.Errorf("expected %s, got %s", agent.StatusActive, status)
	}
	return nil
}
