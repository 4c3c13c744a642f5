package swarm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/application/swarm/coordination"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/ports"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// fakeDocking answers AwaitMerge from a callback
type fakeDocking struct {
	mu      sync.Mutex
	reply   func(id agent.ID, seq uint64) (agent.MergeComplete, error)
	awaited []uint64
}

func (f *fakeDocking) Register(agent.ID) error { return nil }

func (f *fakeDocking) AwaitMerge(_ context.Context, id agent.ID, seq uint64, _ time.Duration) (agent.MergeComplete, error) {
	f.mu.Lock()
	f.awaited = append(f.awaited, seq)
	f.mu.Unlock()
	return f.reply(id, seq)
}

func (f *fakeDocking) DeliverMerge(agent.MergeComplete) error { return nil }
func (f *fakeDocking) Unregister(agent.ID)                    {}
func (f *fakeDocking) Shutdown() error                        { return nil }

func openGrid(t *testing.T, w, h int) *world.Grid {
	t.Helper()
	g, err := world.NewGrid(w, h, nil)
	require.NoError(t, err)
	return g
}

func kinds(events []agent.Event) []agent.EventKind {
	out := make([]agent.EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind()
	}
	return out
}

func countKind(events []agent.Event, kind agent.EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind() == kind {
			n++
		}
	}
	return n
}

func newRuntime(t *testing.T, g *world.Grid, role agent.Role, pos shared.Point, cfg agent.RoleConfig, docking ports.DockingCoordinator) (*AgentRuntime, *EventBus) {
	t.Helper()
	bus := NewEventBus()
	a := agent.New(1, role, pos, cfg, g.Width(), g.Height())
	behavior := agent.NewBehavior(role, shared.ResourceMinerals, agent.DefaultScienceModules())
	rc := DefaultRuntimeConfig()
	rc.MergeTimeout = 50 * time.Millisecond
	return NewAgentRuntime(a, behavior, g, bus, docking, rc, 7), bus
}

func TestRuntime_ExplorerReturnsAfterFifteenMoves(t *testing.T) {
	g := openGrid(t, 10, 10)
	cfg := agent.DefaultRoleConfig(agent.RoleExplorer)
	cfg.MaxEnergy = 20
	cfg.LowEnergyThreshold = 5
	cfg.MovementCost = 1
	rt, bus := newRuntime(t, g, agent.RoleExplorer, shared.Pt(0, 0), cfg, &fakeDocking{})
	ctx := context.Background()

	var events []agent.Event
	for i := 0; i < 15; i++ {
		require.Equal(t, agent.StatusActive, rt.Agent().Status, "tick %d", i)
		require.NoError(t, rt.Step(ctx))
		events = append(events, bus.Drain()...)
	}

	assert.Equal(t, 15, countKind(events, agent.KindExplorationData))
	assert.Equal(t, agent.StatusReturning, rt.Agent().Status)
	assert.Equal(t, uint(5), rt.Agent().Energy.Current)
	tail := kinds(events[len(events)-2:])
	assert.Equal(t, []agent.EventKind{agent.KindLowEnergy, agent.KindReturnToBase}, tail)
	assert.Equal(t, agent.ReturnToBase{Agent: 1, Reason: agent.ReasonLowEnergy}, events[len(events)-1])
}

func TestRuntime_ObservesNeighborsEachTick(t *testing.T) {
	cells := make([]world.Terrain, 10*10)
	cells[0*10+1] = world.Obstacle // (1,0)
	g, err := world.NewGrid(10, 10, cells)
	require.NoError(t, err)
	rt, _ := newRuntime(t, g, agent.RoleExplorer, shared.Pt(0, 0), agent.DefaultRoleConfig(agent.RoleExplorer), &fakeDocking{})

	require.NoError(t, rt.Step(context.Background()))

	k := rt.Agent().Knowledge
	assert.Equal(t, knowledge.Obstacle, k.Tile(shared.Pt(1, 0)))
	assert.Equal(t, knowledge.Walkable, k.Tile(shared.Pt(0, 0)))
	// the only open neighbor was (0,1)
	assert.Equal(t, shared.Pt(0, 1), rt.Agent().Position)
}

func TestRuntime_CollectorReturnsWhenCargoFull(t *testing.T) {
	g := openGrid(t, 10, 10)
	p := shared.Pt(1, 1)
	require.NoError(t, g.AddResource(p, shared.ResourceMinerals, 40))
	cfg := agent.DefaultRoleConfig(agent.RoleCollector)
	cfg.MaxCapacity = 40
	rt, bus := newRuntime(t, g, agent.RoleCollector, p, cfg, &fakeDocking{})

	require.NoError(t, rt.Step(context.Background()))

	events := bus.Drain()
	require.Equal(t, []agent.EventKind{agent.KindCollectionData, agent.KindReturnToBase}, kinds(events))
	assert.Equal(t, agent.ReturnToBase{Agent: 1, Reason: agent.ReasonCargoFull}, events[1])
	assert.Equal(t, agent.StatusReturning, rt.Agent().Status)
	assert.Equal(t, p, rt.Agent().Position, "collecting replaces movement")
	assert.False(t, g.HasResource(p))
}

func TestRuntime_DockMergesAndResumes(t *testing.T) {
	g := openGrid(t, 10, 10)
	center := g.StationCenter()
	fused := knowledge.New(10, 10)
	require.NoError(t, fused.Update(shared.Pt(0, 0), knowledge.Obstacle))
	docking := &fakeDocking{reply: func(id agent.ID, seq uint64) (agent.MergeComplete, error) {
		return agent.MergeComplete{Agent: id, Seq: seq, Knowledge: fused}, nil
	}}
	rt, bus := newRuntime(t, g, agent.RoleCollector, center, agent.DefaultRoleConfig(agent.RoleCollector), docking)
	a := rt.Agent()
	a.Status = agent.StatusReturning
	a.Energy.Drain(480)
	require.NoError(t, a.Cargo.Load(shared.ResourceMinerals, 30))
	a.Visited.Add(shared.Pt(4, 4))

	require.NoError(t, rt.Step(context.Background()))

	events := bus.Drain()
	require.Len(t, events, 1)
	arrived, ok := events[0].(agent.ArrivedAtStation)
	require.True(t, ok)
	assert.Equal(t, uint64(1), arrived.Seq)
	assert.NotSame(t, a.Knowledge, arrived.Knowledge, "report must be a copy")

	assert.Equal(t, agent.StatusActive, a.Status)
	assert.True(t, a.Energy.IsFull())
	assert.Equal(t, uint(0), a.Cargo.Total())
	assert.Same(t, fused, a.Knowledge)
	assert.False(t, a.Visited.Has(shared.Pt(4, 4)))
	assert.Equal(t, uint64(1), rt.View().Docks)
}

func TestRuntime_DockTimeoutKeepsLocalKnowledge(t *testing.T) {
	g := openGrid(t, 10, 10)
	docking := &fakeDocking{reply: func(agent.ID, uint64) (agent.MergeComplete, error) {
		return agent.MergeComplete{}, ports.ErrMergeTimeout
	}}
	rt, _ := newRuntime(t, g, agent.RoleExplorer, g.StationCenter(), agent.DefaultRoleConfig(agent.RoleExplorer), docking)
	a := rt.Agent()
	a.Status = agent.StatusReturning
	a.Energy.Drain(790)
	local := a.Knowledge

	require.NoError(t, rt.Step(context.Background()))
	assert.Equal(t, agent.StatusActive, a.Status)
	assert.Same(t, local, a.Knowledge)
	assert.Equal(t, uint(10), a.Energy.Current)

	// still low on energy: the next ticks head back and retry with a new seq
	require.NoError(t, rt.Step(context.Background()))
	assert.Equal(t, agent.StatusReturning, a.Status)
	require.NoError(t, rt.Step(context.Background()))
	assert.Equal(t, []uint64{1, 2}, docking.awaited)
}

func TestRuntime_DockingNeverDeadlocksWithoutReply(t *testing.T) {
	g := openGrid(t, 10, 10)
	docking := coordination.NewChannelDockingCoordinator([]agent.ID{1})
	rt, _ := newRuntime(t, g, agent.RoleScientist, g.StationCenter(), agent.DefaultRoleConfig(agent.RoleScientist), docking)
	rt.Agent().Status = agent.StatusAtStation

	start := time.Now()
	require.NoError(t, rt.Step(context.Background()))

	assert.Equal(t, agent.StatusActive, rt.Agent().Status)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRuntime_ReturningAgentWalksHome(t *testing.T) {
	g := openGrid(t, 10, 10)
	docking := &fakeDocking{reply: func(id agent.ID, seq uint64) (agent.MergeComplete, error) {
		return agent.MergeComplete{Agent: id, Seq: seq, Knowledge: knowledge.New(10, 10)}, nil
	}}
	rt, bus := newRuntime(t, g, agent.RoleExplorer, shared.Pt(0, 0), agent.DefaultRoleConfig(agent.RoleExplorer), docking)
	a := rt.Agent()
	a.Status = agent.StatusReturning
	a.Energy.Drain(a.Energy.Current)

	for i := 0; i < 40 && countKind(bus.Drain(), agent.KindArrivedAtStation) == 0; i++ {
		require.NoError(t, rt.Step(context.Background()))
	}

	assert.Equal(t, agent.StatusActive, a.Status)
	assert.True(t, a.Energy.IsFull())
	assert.Equal(t, g.StationCenter(), a.Position)
}

func TestRuntime_RunShutsDownOnGridFailure(t *testing.T) {
	g := openGrid(t, 10, 10)
	rt, bus := newRuntime(t, g, agent.RoleExplorer, shared.Pt(0, 0), agent.DefaultRoleConfig(agent.RoleExplorer), &fakeDocking{})
	g.Close()

	err := rt.Run(context.Background())

	assert.ErrorIs(t, err, world.ErrGridUnavailable)
	events := bus.Drain()
	require.NotEmpty(t, events)
	assert.Equal(t, agent.Shutdown{Agent: 1, Reason: ShutdownGridUnavailable}, events[len(events)-1])
	assert.Equal(t, agent.StatusShutdown, rt.View().Snapshot.Status)
}

func TestRuntime_StepFailsWhenBusClosed(t *testing.T) {
	g := openGrid(t, 10, 10)
	rt, bus := newRuntime(t, g, agent.RoleExplorer, shared.Pt(0, 0), agent.DefaultRoleConfig(agent.RoleExplorer), &fakeDocking{})
	bus.Close()

	err := rt.Step(context.Background())

	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestRuntime_RunStopsOnCancel(t *testing.T) {
	g := openGrid(t, 10, 10)
	rt, bus := newRuntime(t, g, agent.RoleExplorer, shared.Pt(0, 0), agent.DefaultRoleConfig(agent.RoleExplorer), &fakeDocking{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runtime did not stop after cancel")
	}
	events := bus.Drain()
	assert.Equal(t, agent.Shutdown{Agent: 1, Reason: ShutdownCancelled}, events[len(events)-1])
}
