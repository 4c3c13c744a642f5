package steps

import (
	"context"
	"fmt"
	"sync"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/swarm-go/internal/application/swarm"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/coordination"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

func (s *swarmContext) registerAgentSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an open (\d+)x(\d+) grid$`, s.anOpenGrid)
	sc.Step(`^an explorer at \((\d+),(\d+)\) with energy (\d+), low-energy threshold (\d+) and movement cost (\d+)$`, s.anExplorerWithEnergy)
	sc.Step(`^the explorer takes (\d+) steps$`, s.theExplorerTakesSteps)
	sc.Step(`^the explorer should be returning to the station$`, s.theExplorerShouldBeReturning)
	sc.Step(`^the explorer should have (\d+) energy left$`, s.theExplorerShouldHaveEnergy)
	sc.Step(`^the explorer should have published (\d+) "([^"]*)" events$`, s.theExplorerShouldHavePublished)

	sc.Step(`^a (\d+)-unit "([^"]*)" deposit at \((\d+),(\d+)\)$`, s.aDepositAt)
	sc.Step(`^a "([^"]*)" collector with capacity (\d+) at \((\d+),(\d+)\)$`, s.aCollectorAt)
	sc.Step(`^two "([^"]*)" collectors with capacity (\d+) at \((\d+),(\d+)\)$`, s.twoCollectorsAt)
	sc.Step(`^the collector attempts to collect$`, s.theCollectorAttemptsToCollect)
	sc.Step(`^both collectors attempt to collect at the same time$`, s.bothCollectorsAttempt)
	sc.Step(`^the collection should fail with "([^"]*)"$`, s.theCollectionShouldFailWith)
	sc.Step(`^the collector's cargo should be (\d+)$`, s.theCollectorsCargoShouldBe)
	sc.Step(`^the grid should report (\d+) "([^"]*)" at \((\d+),(\d+)\)$`, s.theGridShouldReport)
	sc.Step(`^the grid should have no deposit at \((\d+),(\d+)\)$`, s.theGridShouldHaveNoDeposit)
	sc.Step(`^exactly one collector should receive (\d+) units$`, s.exactlyOneCollectorShouldReceive)
	sc.Step(`^the other collector should see the deposit as gone$`, s.theOtherCollectorShouldSeeItGone)
}

func (s *swarmContext) anOpenGrid(width, height int) error {
	g, err := world.NewGrid(width, height, nil)
	if err != nil {
		return err
	}
	s.grid = g
	return nil
}

func (s *swarmContext) anExplorerWithEnergy(x, y, energy, threshold, moveCost int) error {
	cfg := agent.DefaultRoleConfig(agent.RoleExplorer)
	cfg.MaxEnergy = uint(energy)
	cfg.LowEnergyThreshold = uint(threshold)
	cfg.MovementCost = uint(moveCost)

	a := agent.New(1, agent.RoleExplorer, shared.Pt(x, y), cfg, s.grid.Width(), s.grid.Height())
	s.bus = swarm.NewEventBus()
	s.docking = coordination.NewChannelDockingCoordinator([]agent.ID{a.ID})
	s.runtime = swarm.NewAgentRuntime(a, agent.Explorer{}, s.grid, s.bus, s.docking, fastRuntimeConfig(defaultMergeTimeout), 7)
	return nil
}

func (s *swarmContext) theExplorerTakesSteps(n int) error {
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if err := s.runtime.Step(ctx); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		s.events = append(s.events, s.bus.Drain()...)
	}
	return nil
}

func (s *swarmContext) theExplorerShouldBeReturning() error {
	if status := s.runtime.Agent().Status; status != agent.StatusReturning {
		return fmt.Errorf("expected %s, got %s", agent.StatusReturning, status)
	}
	return nil
}

func (s *swarmContext) theExplorerShouldHaveEnergy(expected int) error {
	if got := s.runtime.Agent().Energy.Current; got != uint(expected) {
		return fmt.Errorf("expected %d energy, got %d", expected, got)
	}
	return nil
}

func (s *swarmContext) theExplorerShouldHavePublished(expected int, kind string) error {
	count := 0
	for _, ev := range s.events {
		if ev.Kind() == agent.EventKind(kind) {
			count++
		}
	}
	if count != expected {
		return fmt.Errorf("expected %d %s events, got %d", expected, kind, count)
	}
	return nil
}

func (s *swarmContext) aDepositAt(amount int, resource string, x, y int) error {
	t, err := shared.ParseResourceType(resource)
	if err != nil {
		return err
	}
	return s.grid.AddResource(shared.Pt(x, y), t, uint(amount))
}

func (s *swarmContext) newCollector(id agent.ID, capacity int, pos shared.Point) (*agent.Agent, error) {
	cfg := agent.DefaultRoleConfig(agent.RoleCollector)
	cfg.MaxCapacity = uint(capacity)
	a := agent.New(id, agent.RoleCollector, pos, cfg, s.grid.Width(), s.grid.Height())
	err := s.grid.View(func(r world.Reader) error {
		return a.Knowledge.Observe(r, pos)
	})
	return a, err
}

func (s *swarmContext) aCollectorAt(resource string, capacity, x, y int) error {
	return s.addCollectors(resource, 1, capacity, x, y)
}

func (s *swarmContext) twoCollectorsAt(resource string, capacity, x, y int) error {
	return s.addCollectors(resource, 2, capacity, x, y)
}

func (s *swarmContext) addCollectors(resource string, n, capacity, x, y int) error {
	t, err := shared.ParseResourceType(resource)
	if err != nil {
		return err
	}
	s.behavior = agent.NewCollector(t)
	for i := 0; i < n; i++ {
		a, err := s.newCollector(agent.ID(len(s.collectors)+1), capacity, shared.Pt(x, y))
		if err != nil {
			return err
		}
		s.collectors = append(s.collectors, a)
	}
	return nil
}

func (s *swarmContext) theCollectorAttemptsToCollect() error {
	out, err := s.behavior.PrimaryAction(s.collectors[0], s.grid)
	if err != nil {
		return err
	}
	s.outcomes = []agent.Outcome{out}
	return nil
}

func (s *swarmContext) bothCollectorsAttempt() error {
	s.outcomes = make([]agent.Outcome, len(s.collectors))
	errs := make([]error, len(s.collectors))

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, a := range s.collectors {
		wg.Add(1)
		go func(i int, a *agent.Agent) {
			defer wg.Done()
			<-start
			s.outcomes[i], errs[i] = s.behavior.PrimaryAction(a, s.grid)
		}(i, a)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *swarmContext) theCollectionShouldFailWith(failure string) error {
	out := s.outcomes[0]
	if out.Performed {
		return fmt.Errorf("expected collection to fail, it succeeded")
	}
	if out.Failure != failure {
		return fmt.Errorf("expected failure %q, got %q", failure, out.Failure)
	}
	return nil
}

func (s *swarmContext) theCollectorsCargoShouldBe(expected int) error {
	if got := s.collectors[0].Cargo.Total(); got != uint(expected) {
		return fmt.Errorf("expected cargo %d, got %d", expected, got)
	}
	return nil
}

func (s *swarmContext) theGridShouldReport(amount int, resource string, x, y int) error {
	t, err := shared.ParseResourceType(resource)
	if err != nil {
		return err
	}
	res, ok := s.grid.GetResource(shared.Pt(x, y))
	if !ok {
		return fmt.Errorf("no deposit at (%d,%d)", x, y)
	}
	if res.Type != t || res.Amount != uint(amount) {
		return fmt.Errorf("expected %d %s, got %d %s", amount, t, res.Amount, res.Type)
	}
	return nil
}

func (s *swarmContext) theGridShouldHaveNoDeposit(x, y int) error {
	if s.grid.HasResource(shared.Pt(x, y)) {
		return fmt.Errorf("deposit still present at (%d,%d)", x, y)
	}
	return nil
}

func (s *swarmContext) exactlyOneCollectorShouldReceive(amount int) error {
	winners := 0
	for _, out := range s.outcomes {
		if !out.Performed {
			continue
		}
		winners++
		data, ok := out.Event.(agent.CollectionData)
		if !ok {
			return fmt.Errorf("expected CollectionData, got %T", out.Event)
		}
		if data.Resource.Amount != uint(amount) {
			return fmt.Errorf("expected %d units, got %d", amount, data.Resource.Amount)
		}
	}
	if winners != 1 {
		return fmt.Errorf("expected exactly one winner, got %d", winners)
	}
	return nil
}

func (s *swarmContext) theOtherCollectorShouldSeeItGone() error {
	for i, out := range s.outcomes {
		if out.Performed {
			continue
		}
		if out.Failure != agent.FailResourceVanished {
			return fmt.Errorf("expected %q, got %q", agent.FailResourceVanished, out.Failure)
		}
		a := s.collectors[i]
		if tile := a.Knowledge.Tile(a.Position); tile.Kind != knowledge.KindWalkable {
			return fmt.Errorf("expected the loser to see a walkable tile, got %s", tile)
		}
	}
	return nil
}
