package swarm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/andrescamacho/swarm-go/internal/adapters/metrics"
	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/ports"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// Shutdown reasons
const (
	ShutdownCancelled       = "cancelled"
	ShutdownGridUnavailable = "grid_unavailable"
	ShutdownBusClosed       = "event_bus_closed"
	ShutdownDockingFailed   = "docking_unavailable"
	ShutdownInternal        = "internal_error"
)

// Dock outcomes
const (
	DockMerged       = "merged"
	DockTimeout      = "timeout"
	DockDisconnected = "disconnected"
)

// RuntimeConfig holds timing shared by every agent runtime
type RuntimeConfig struct {
	MergeTimeout   time.Duration
	DockSleep      time.Duration
	ReturnSleepMin time.Duration
	ReturnSleepMax time.Duration
}

// DefaultRuntimeConfig returns the stock timings
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		MergeTimeout:   agent.DefaultMergeTimeout,
		DockSleep:      agent.DefaultDockSleep,
		ReturnSleepMin: agent.DefaultReturnSleepMin,
		ReturnSleepMax: agent.DefaultReturnSleepMax,
	}
}

// RuntimeView is what other goroutines may see of a running agent
type RuntimeView struct {
	Snapshot agent.Snapshot
	Ticks    uint64
	Docks    uint64
}

// AgentRuntime drives one agent through the shared state machine. The role
// specific parts are delegated to a Behavior. Step and Run must only be called
// from the goroutine that owns the agent.
type AgentRuntime struct {
	agent    *agent.Agent
	behavior agent.Behavior
	grid     *world.Grid
	bus      ports.EventPublisher
	docking  ports.DockingCoordinator
	config   RuntimeConfig
	rng      *rand.Rand

	seq   uint64
	ticks uint64
	docks uint64

	mu   sync.RWMutex
	view RuntimeView
}

// NewAgentRuntime wires an agent to the shared grid, bus and reply path
func NewAgentRuntime(
	a *agent.Agent,
	behavior agent.Behavior,
	grid *world.Grid,
	bus ports.EventPublisher,
	docking ports.DockingCoordinator,
	config RuntimeConfig,
	seed int64,
) *AgentRuntime {
	r := &AgentRuntime{
		agent:    a,
		behavior: behavior,
		grid:     grid,
		bus:      bus,
		docking:  docking,
		config:   config,
		rng:      rand.New(rand.NewSource(seed)),
	}
	r.publishView()
	return r
}

// ID returns the agent id
func (r *AgentRuntime) ID() agent.ID { return r.agent.ID }

// Role returns the agent role
func (r *AgentRuntime) Role() agent.Role { return r.agent.Role }

// Agent exposes the owned agent. Only safe while the runtime is not running.
func (r *AgentRuntime) Agent() *agent.Agent { return r.agent }

// View returns the last published snapshot
func (r *AgentRuntime) View() RuntimeView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

func (r *AgentRuntime) publishView() {
	snap := r.agent.Snapshot()
	r.mu.Lock()
	r.view = RuntimeView{Snapshot: snap, Ticks: r.ticks, Docks: r.docks}
	r.mu.Unlock()
}

// Run ticks until ctx is cancelled or a fatal error occurs. The final event
// published is always Shutdown. Cancellation is not an error.
func (r *AgentRuntime) Run(ctx context.Context) error {
	logger := logging.LoggerFromContext(ctx)

	logger.Log(logging.LevelInfo, "Agent started", map[string]interface{}{
		"agent_id": r.agent.ID.String(),
		"role":     r.agent.Role.String(),
		"position": r.agent.Position.String(),
	})

	for {
		if ctx.Err() != nil {
			r.shutdown(ctx, ShutdownCancelled)
			return nil
		}

		if err := r.Step(ctx); err != nil {
			if ctx.Err() != nil {
				r.shutdown(ctx, ShutdownCancelled)
				return nil
			}
			logger.Log(logging.LevelError, "Agent task failed", map[string]interface{}{
				"agent_id": r.agent.ID.String(),
				"role":     r.agent.Role.String(),
				"error":    err.Error(),
			})
			r.shutdown(ctx, shutdownReason(err))
			return err
		}

		if !sleepCtx(ctx, r.pace()) {
			r.shutdown(ctx, ShutdownCancelled)
			return nil
		}
	}
}

// Step runs one tick of the state machine. A returned error is fatal.
func (r *AgentRuntime) Step(ctx context.Context) error {
	defer r.publishView()
	r.ticks++

	var err error
	switch r.agent.Status {
	case agent.StatusActive:
		err = r.stepActive(ctx)
	case agent.StatusReturning:
		err = r.stepReturning(ctx)
	case agent.StatusAtStation:
		err = r.dock(ctx)
	case agent.StatusShutdown:
		return nil
	default:
		panic(fmt.Sprintf("agent %s in unhandled status %d", r.agent.ID, r.agent.Status))
	}
	return err
}

func (r *AgentRuntime) stepActive(ctx context.Context) error {
	a := r.agent
	discovered, err := r.observe()
	if err != nil {
		return err
	}

	if returned, err := r.checkReturn(ctx); err != nil || returned {
		return err
	}

	outcome, err := r.behavior.PrimaryAction(a, r.grid)
	if err != nil {
		return fmt.Errorf("primary action: %w", err)
	}
	if outcome.Performed {
		if outcome.Event != nil {
			if err := r.publish(outcome.Event); err != nil {
				return err
			}
		}
		_, err := r.checkReturn(ctx)
		return err
	}
	if outcome.Failure != "" {
		logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "Primary action skipped", map[string]interface{}{
			"agent_id": a.ID.String(),
			"action":   a.Role.ActiveLabel(),
			"reason":   outcome.Failure,
			"energy":   a.Energy.Current,
		})
	}

	dir, ok := r.chooseActiveStep()
	if ok && a.UseEnergy(r.behavior.MoveCost(a)) {
		r.moveTo(dir.From(a.Position))
		if ev := r.behavior.Moved(a, discovered); ev != nil {
			if err := r.publish(ev); err != nil {
				return err
			}
		}
	}

	_, err = r.checkReturn(ctx)
	return err
}

func (r *AgentRuntime) chooseActiveStep() (agent.Direction, bool) {
	a := r.agent
	if target, ok := r.behavior.Target(a); ok && target != a.Position {
		if dir, ok := agent.DirectedStep(a.Position, target, a.Knowledge, r.passable, r.rng); ok {
			return dir, true
		}
	}
	return agent.ExploreStep(a.Position, a.Knowledge, a.Visited, r.rng)
}

// passable rejects tiles the agent has not seen yet; every neighbor is
// observed before a move so this only filters the map edge.
func (r *AgentRuntime) passable(p shared.Point) bool {
	return r.agent.Knowledge.Tile(p).IsPassable()
}

func (r *AgentRuntime) stepReturning(ctx context.Context) error {
	a := r.agent
	if _, err := r.observe(); err != nil {
		return err
	}
	if a.AtStationCenter() {
		return r.dock(ctx)
	}

	center := a.Knowledge.StationCenter()
	dir, ok := agent.DirectedStep(a.Position, center, a.Knowledge, r.passable, r.rng)
	if !ok {
		dir, ok = agent.ExploreStep(a.Position, a.Knowledge, a.Visited, r.rng)
	}
	if !ok {
		return nil
	}

	// A returning agent always moves; energy bottoms out at zero
	a.Energy.Drain(r.behavior.MoveCost(a))
	r.moveTo(dir.From(a.Position))

	if a.AtStationCenter() {
		return r.dock(ctx)
	}
	return nil
}

func (r *AgentRuntime) moveTo(p shared.Point) {
	r.agent.Position = p
	r.agent.Visited.Add(p)
	metrics.RecordAgentMove(r.agent.Role)
}

// observe refreshes the current tile and its four neighbors from the grid and
// returns how many of them were previously unknown
func (r *AgentRuntime) observe() (int, error) {
	a := r.agent
	discovered := 0
	err := r.grid.View(func(g world.Reader) error {
		tiles := a.Position.Neighbors()
		for _, p := range append([]shared.Point{a.Position}, tiles[:]...) {
			if !g.InBounds(p) {
				continue
			}
			if !a.Knowledge.Tile(p).IsKnown() {
				discovered++
			}
			if err := a.Knowledge.Observe(g, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("observe: %w", err)
	}
	return discovered, nil
}

// checkReturn switches an active agent to Returning when energy is low or the
// behavior asks for it
func (r *AgentRuntime) checkReturn(ctx context.Context) (bool, error) {
	a := r.agent
	if a.EnergyLow() {
		if err := r.publish(agent.LowEnergy{Agent: a.ID, Energy: a.Energy.Current}); err != nil {
			return false, err
		}
		return true, r.beginReturn(ctx, agent.ReasonLowEnergy)
	}
	if reason, ok := r.behavior.ShouldReturn(a); ok {
		return true, r.beginReturn(ctx, reason)
	}
	return false, nil
}

func (r *AgentRuntime) beginReturn(ctx context.Context, reason string) error {
	a := r.agent
	a.Status = agent.StatusReturning

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Agent returning to station", map[string]interface{}{
		"agent_id": a.ID.String(),
		"action":   "return_to_base",
		"reason":   reason,
		"energy":   a.Energy.Current,
		"cargo":    a.Cargo.Total(),
	})
	return r.publish(agent.ReturnToBase{Agent: a.ID, Reason: reason})
}

// dock hands a knowledge snapshot to the station and waits on the private
// reply path. A timeout or disconnect resumes with the local knowledge.
func (r *AgentRuntime) dock(ctx context.Context) error {
	a := r.agent
	logger := logging.LoggerFromContext(ctx)

	a.Status = agent.StatusAtStation
	r.seq++
	r.docks++
	r.publishView()

	if err := r.publish(agent.ArrivedAtStation{Agent: a.ID, Seq: r.seq, Knowledge: a.Knowledge.Clone()}); err != nil {
		return err
	}

	reply, err := r.docking.AwaitMerge(ctx, a.ID, r.seq, r.config.MergeTimeout)
	switch {
	case err == nil:
		a.Knowledge = reply.Knowledge
		a.Energy.Recharge()
		r.behavior.Docked(a)
		metrics.RecordDockOutcome(a.Role, DockMerged)
		logger.Log(logging.LevelInfo, "Agent docked and merged knowledge", map[string]interface{}{
			"agent_id": a.ID.String(),
			"action":   "merge_complete",
			"seq":      r.seq,
			"coverage": a.Knowledge.Coverage(),
		})
	case errors.Is(err, ports.ErrMergeTimeout), errors.Is(err, ports.ErrReplyDisconnected):
		outcome := DockTimeout
		if errors.Is(err, ports.ErrReplyDisconnected) {
			outcome = DockDisconnected
		}
		metrics.RecordDockOutcome(a.Role, outcome)
		logger.Log(logging.LevelWarning, "Docking reply not received, resuming with local knowledge", map[string]interface{}{
			"agent_id": a.ID.String(),
			"action":   "merge_" + outcome,
			"seq":      r.seq,
			"timeout":  r.config.MergeTimeout.String(),
		})
	default:
		return fmt.Errorf("await merge: %w", err)
	}

	a.Visited.Clear()
	a.Status = agent.StatusActive
	return nil
}

func (r *AgentRuntime) publish(ev agent.Event) error {
	if err := r.bus.Publish(ev); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Kind(), err)
	}
	return nil
}

// shutdown marks the agent terminated and publishes its last event
func (r *AgentRuntime) shutdown(ctx context.Context, reason string) {
	a := r.agent
	a.Status = agent.StatusShutdown
	r.publishView()

	metrics.RecordAgentShutdown(a.Role, reason != ShutdownCancelled)

	if err := r.bus.Publish(agent.Shutdown{Agent: a.ID, Reason: reason}); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarning, "Shutdown event not delivered", map[string]interface{}{
			"agent_id": a.ID.String(),
			"reason":   reason,
			"error":    err.Error(),
		})
	}
}

// pace is the sleep before the next tick for the current status
func (r *AgentRuntime) pace() time.Duration {
	switch r.agent.Status {
	case agent.StatusReturning:
		return r.randomDuration(r.config.ReturnSleepMin, r.config.ReturnSleepMax)
	case agent.StatusAtStation:
		return r.config.DockSleep
	default:
		return r.randomDuration(r.agent.Config.SleepMin, r.agent.Config.SleepMax)
	}
}

func (r *AgentRuntime) randomDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.rng.Int63n(int64(hi-lo)))
}

func shutdownReason(err error) string {
	switch {
	case errors.Is(err, world.ErrGridUnavailable):
		return ShutdownGridUnavailable
	case errors.Is(err, ErrBusClosed):
		return ShutdownBusClosed
	case errors.Is(err, ports.ErrAgentNotRegistered):
		return ShutdownDockingFailed
	default:
		return ShutdownInternal
	}
}

// sleepCtx waits d or until ctx is done; false means cancelled
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
