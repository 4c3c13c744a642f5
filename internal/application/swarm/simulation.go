package swarm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/swarm-go/internal/adapters/metrics"
	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/coordination"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
	"github.com/andrescamacho/swarm-go/internal/domain/station"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// ErrAlreadyStarted is returned by Start on a running simulation
var ErrAlreadyStarted = errors.New("simulation already started")

// Config describes one simulation
type Config struct {
	Width         int
	Height        int
	TerrainSeed   int64
	ResourceSeed  int64
	ResourceCount int
	AgentSeed     int64

	Agents          RoleCounts
	RoleConfigs     map[agent.Role]agent.RoleConfig
	CollectorTarget shared.ResourceType
	ScienceModules  []agent.ScienceModule
	Runtime         RuntimeConfig

	TickInterval        time.Duration
	MaxTicks            int
	StallTimeout        time.Duration
	HealthCheckInterval time.Duration
}

// DefaultConfig mirrors the stock world: a 90x15 map with 20 deposits
func DefaultConfig() Config {
	return Config{
		Width:           90,
		Height:          15,
		TerrainSeed:     34,
		ResourceSeed:    45,
		ResourceCount:   20,
		AgentSeed:       1,
		Agents:          RoleCounts{Explorers: 2, Collectors: 2, Scientists: 1},
		CollectorTarget: shared.ResourceMinerals,
		ScienceModules:  agent.DefaultScienceModules(),
		Runtime:         DefaultRuntimeConfig(),

		TickInterval:        100 * time.Millisecond,
		StallTimeout:        10 * time.Second,
		HealthCheckInterval: time.Second,
	}
}

func (c Config) roleConfig(role agent.Role) agent.RoleConfig {
	if rc, ok := c.RoleConfigs[role]; ok {
		return rc
	}
	return agent.DefaultRoleConfig(role)
}

// Snapshot is a consistent copy of the simulation's bookkeeping
type Snapshot struct {
	Tick     int
	Agents   []agent.Snapshot
	Stats    simulation.Stats
	Coverage float64
	Stalled  int
	Pending  int
}

// Simulation owns the grid, the bus, the station and the agent runtimes. The
// loop goroutine drains the bus each tick and dispatches docking events to
// the station inline.
type Simulation struct {
	config  Config
	grid    *world.Grid
	bus     *EventBus
	docking *coordination.ChannelDockingCoordinator
	station *Station
	clock   shared.Clock

	mu        sync.RWMutex
	runtimes  map[agent.ID]*AgentRuntime
	stats     *simulation.Stats
	health    *simulation.HealthMonitor
	lastTicks map[agent.ID]uint64

	wg       sync.WaitGroup
	cancel   context.CancelFunc
	started  bool
	stopOnce sync.Once
}

// NewSimulation generates the world from the config seeds and spawns agents
func NewSimulation(cfg Config, clock shared.Clock) (*Simulation, error) {
	grid, err := world.NewGeneratedGrid(cfg.Width, cfg.Height, cfg.TerrainSeed, cfg.ResourceSeed, cfg.ResourceCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate world: %w", err)
	}
	return NewSimulationWithGrid(cfg, grid, clock)
}

// NewSimulationWithGrid spawns agents on an existing grid
func NewSimulationWithGrid(cfg Config, grid *world.Grid, clock shared.Clock) (*Simulation, error) {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	roles := cfg.Agents.Roles()
	positions, err := SpawnPositions(grid, len(roles))
	if err != nil {
		return nil, err
	}

	ids := make([]agent.ID, len(roles))
	for i := range roles {
		ids[i] = agent.ID(i + 1)
	}

	bus := NewEventBus()
	docking := coordination.NewChannelDockingCoordinator(ids)
	gk := station.NewGlobalKnowledge(grid.Width(), grid.Height())

	s := &Simulation{
		config:    cfg,
		grid:      grid,
		bus:       bus,
		docking:   docking,
		station:   NewStation(gk, docking, clock),
		clock:     clock,
		runtimes:  make(map[agent.ID]*AgentRuntime, len(roles)),
		stats:     simulation.NewStats(),
		health:    simulation.NewHealthMonitor(cfg.HealthCheckInterval, cfg.StallTimeout, clock),
		lastTicks: make(map[agent.ID]uint64, len(roles)),
	}

	for i, role := range roles {
		a := agent.New(ids[i], role, positions[i], cfg.roleConfig(role), grid.Width(), grid.Height())
		behavior := agent.NewBehavior(role, cfg.CollectorTarget, cfg.ScienceModules)
		s.runtimes[a.ID] = NewAgentRuntime(a, behavior, grid, bus, docking, cfg.Runtime, cfg.AgentSeed+int64(a.ID))
		s.health.Watch(a.ID)
	}
	return s, nil
}

// Grid exposes the shared world
func (s *Simulation) Grid() *world.Grid { return s.grid }

// Station exposes the station service
func (s *Simulation) Station() *Station { return s.station }

// Bus exposes the event bus
func (s *Simulation) Bus() *EventBus { return s.bus }

// GlobalKnowledge returns a copy of the station's fused view
func (s *Simulation) GlobalKnowledge() *knowledge.AgentKnowledge {
	return s.station.Knowledge().Snapshot()
}

// Runtime returns the runtime of a live agent
func (s *Simulation) Runtime(id agent.ID) (*AgentRuntime, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runtimes[id]
	return r, ok
}

// LiveAgents is the number of agents that have not shut down
func (s *Simulation) LiveAgents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runtimes)
}

// Start launches one goroutine per agent. Agents stop when ctx is cancelled or
// Stop is called.
func (s *Simulation) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	agentCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	logger := logging.LoggerFromContext(ctx)

	for _, id := range s.sortedIDsLocked() {
		rt := s.runtimes[id]
		scoped := logging.WithLogger(agentCtx, logging.Scope(logger, id.String()))

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_ = rt.Run(scoped)
		}()
	}

	logger.Log(logging.LevelInfo, "Simulation started", map[string]interface{}{
		"agents": len(s.runtimes),
		"width":  s.grid.Width(),
		"height": s.grid.Height(),
	})
	return nil
}

// Tick drains every pending event and dispatches it. It never blocks on agents.
func (s *Simulation) Tick(ctx context.Context) {
	for _, ev := range s.bus.Drain() {
		s.dispatch(ctx, ev)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Ticks++
	s.checkHealthLocked(ctx)
}

func (s *Simulation) dispatch(ctx context.Context, ev agent.Event) {
	logger := logging.LoggerFromContext(ctx)

	s.mu.Lock()
	s.stats.Record(ev)
	s.mu.Unlock()
	metrics.RecordEvent(ev.Kind())

	switch e := ev.(type) {
	case agent.ExplorationData:
		logger.Log(logging.LevelDebug, "Exploration step", map[string]interface{}{
			"agent_id":   e.Agent.String(),
			"position":   e.Position.String(),
			"discovered": e.Discovered,
		})
	case agent.CollectionData:
		metrics.RecordResourceCollected(e.Resource.Type, e.Resource.Amount)
		logger.Log(logging.LevelInfo, "Resource collected", map[string]interface{}{
			"agent_id":      e.Agent.String(),
			"position":      e.Position.String(),
			"resource_type": e.Resource.Type.String(),
			"amount":        e.Resource.Amount,
		})
	case agent.ScienceData:
		metrics.RecordScienceValue(e.Amount)
		logger.Log(logging.LevelInfo, "Science analyzed", map[string]interface{}{
			"agent_id": e.Agent.String(),
			"position": e.Position.String(),
			"amount":   e.Amount,
			"modules":  e.Modules,
		})
	case agent.LowEnergy:
		logger.Log(logging.LevelInfo, "Agent energy low", map[string]interface{}{
			"agent_id": e.Agent.String(),
			"energy":   e.Energy,
		})
	case agent.ReturnToBase:
		logger.Log(logging.LevelDebug, "Agent heading to station", map[string]interface{}{
			"agent_id": e.Agent.String(),
			"reason":   e.Reason,
		})
	case agent.ArrivedAtStation:
		result, err := s.station.HandleArrival(ctx, e)
		s.mu.Lock()
		s.stats.RecordMerge(result.Applied)
		s.mu.Unlock()
		if err != nil {
			logger.Log(logging.LevelWarning, "Merge reply not delivered", map[string]interface{}{
				"agent_id": e.Agent.String(),
				"seq":      e.Seq,
				"error":    err.Error(),
			})
		}
	case agent.MergeComplete:
		// replies travel on the private path only
		logger.Log(logging.LevelWarning, "Unexpected merge reply on event bus", map[string]interface{}{
			"agent_id": e.Agent.String(),
		})
	case agent.Shutdown:
		s.removeAgent(e.Agent)
		logger.Log(logging.LevelInfo, "Agent shut down", map[string]interface{}{
			"agent_id": e.Agent.String(),
			"reason":   e.Reason,
		})
	default:
		panic(fmt.Sprintf("unhandled event %T", ev))
	}
}

func (s *Simulation) removeAgent(id agent.ID) {
	s.mu.Lock()
	delete(s.runtimes, id)
	delete(s.lastTicks, id)
	s.health.Forget(id)
	s.mu.Unlock()

	s.docking.Unregister(id)
}

// checkHealthLocked beats every agent that ticked since the last loop
// iteration and warns about agents that went silent
func (s *Simulation) checkHealthLocked(ctx context.Context) {
	for id, rt := range s.runtimes {
		ticks := rt.View().Ticks
		if ticks != s.lastTicks[id] {
			s.lastTicks[id] = ticks
			s.health.Beat(id)
		}
	}

	stalled, skipped := s.health.RunCheck()
	if skipped {
		return
	}
	logger := logging.LoggerFromContext(ctx)
	for _, id := range stalled {
		logger.Log(logging.LevelWarning, "Agent appears stalled", map[string]interface{}{
			"agent_id":      id.String(),
			"stall_timeout": s.health.StallTimeout().String(),
		})
	}
}

// Run starts the agents if needed and ticks at the configured cadence until
// ctx is cancelled, MaxTicks is reached or every agent has shut down. onTick
// may be nil. Agents are stopped before Run returns.
func (s *Simulation) Run(ctx context.Context, onTick func(Snapshot)) error {
	if err := s.Start(ctx); err != nil && !errors.Is(err, ErrAlreadyStarted) {
		return err
	}
	defer s.Stop(ctx)

	interval := s.config.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		s.Tick(ctx)
		snap := s.Snapshot()
		if onTick != nil {
			onTick(snap)
		}
		if s.config.MaxTicks > 0 && snap.Tick >= s.config.MaxTicks {
			return nil
		}
		if len(snap.Agents) == 0 {
			return nil
		}
	}
}

// Stop cancels every agent, waits for them to exit, processes their final
// events and closes the bus and reply paths. Safe to call more than once.
func (s *Simulation) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancel := s.cancel
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		s.wg.Wait()

		// context of the caller may already be done; dispatch must still run
		s.Tick(context.WithoutCancel(ctx))
		s.bus.Close()
		_ = s.docking.Shutdown()

		stats := s.Snapshot().Stats
		logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Simulation stopped", map[string]interface{}{
			"ticks":     stats.Ticks,
			"shutdowns": stats.Shutdowns,
			"merges":    stats.Merges,
		})
	})
}

// Snapshot copies the live bookkeeping. Agents are sorted by id.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]agent.Snapshot, 0, len(s.runtimes))
	for _, id := range s.sortedIDsLocked() {
		agents = append(agents, s.runtimes[id].View().Snapshot)
	}
	return Snapshot{
		Tick:     s.stats.Ticks,
		Agents:   agents,
		Stats:    s.stats.Clone(),
		Coverage: s.station.Knowledge().Coverage(),
		Stalled:  s.health.StalledCount(),
		Pending:  s.bus.Len(),
	}
}

// MetricsSnapshot adapts Snapshot for the metrics poller
func (s *Simulation) MetricsSnapshot() metrics.SwarmSnapshot {
	snap := s.Snapshot()
	return metrics.SwarmSnapshot{
		Agents:   snap.Agents,
		Coverage: snap.Coverage,
		Stalled:  snap.Stalled,
	}
}

func (s *Simulation) sortedIDsLocked() []agent.ID {
	ids := make([]agent.ID, 0, len(s.runtimes))
	for id := range s.runtimes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
