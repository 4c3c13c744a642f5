package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/swarm"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/commands"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

type memoryRunRepo struct {
	mu    sync.Mutex
	runs  map[string]simulation.RunRecord
	saves int
}

func newMemoryRunRepo() *memoryRunRepo {
	return &memoryRunRepo{runs: make(map[string]simulation.RunRecord)}
}

func (r *memoryRunRepo) Save(_ context.Context, run *simulation.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	r.saves++
	return nil
}

func (r *memoryRunRepo) FindByID(_ context.Context, id string) (*simulation.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, simulation.ErrRunNotFound
	}
	return &run, nil
}

func (r *memoryRunRepo) ListRecent(context.Context, int) ([]*simulation.RunRecord, error) {
	return nil, nil
}

type memorySink struct {
	mu      sync.Mutex
	entries []logging.Entry
}

func (s *memorySink) Append(_ context.Context, e logging.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *memorySink) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Message
	}
	return out
}

type countingRenderer struct {
	mu     sync.Mutex
	frames int
	fogged int
}

func (r *countingRenderer) Render(_ *world.Grid, _ []agent.Snapshot, fog *knowledge.AgentKnowledge, _ float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	if fog != nil {
		r.fogged++
	}
	return nil
}

func fastConfig() swarm.Config {
	cfg := swarm.DefaultConfig()
	cfg.Width, cfg.Height = 12, 12
	cfg.ResourceCount = 5
	cfg.Agents = swarm.RoleCounts{Explorers: 1, Collectors: 1, Scientists: 1}
	cfg.RoleConfigs = make(map[agent.Role]agent.RoleConfig)
	for _, role := range agent.AllRoles {
		rc := agent.DefaultRoleConfig(role)
		rc.SleepMin, rc.SleepMax = time.Millisecond, 2*time.Millisecond
		cfg.RoleConfigs[role] = rc
	}
	cfg.Runtime = swarm.RuntimeConfig{
		MergeTimeout:   100 * time.Millisecond,
		DockSleep:      time.Millisecond,
		ReturnSleepMin: time.Millisecond,
		ReturnSleepMax: 2 * time.Millisecond,
	}
	cfg.TickInterval = 5 * time.Millisecond
	cfg.MaxTicks = 20
	return cfg
}

func TestRunSimulation_CompletesAndRecordsRun(t *testing.T) {
	repo := newMemoryRunRepo()
	sink := &memorySink{}
	renderer := &countingRenderer{}
	handler := commands.NewRunSimulationHandler(repo, sink, renderer, nil)

	resp, err := handler.Handle(context.Background(), &commands.RunSimulationCommand{
		Config:         fastConfig(),
		RenderInterval: time.Millisecond,
		Fog:            true,
	})
	require.NoError(t, err)

	result := resp.(*commands.RunSimulationResponse)
	assert.Equal(t, simulation.RunStatusCompleted, result.Status)
	assert.GreaterOrEqual(t, result.Final.Tick, 20)
	assert.Empty(t, result.Final.Agents)
	assert.Regexp(t, `^sim-12x12-[0-9a-f]{8}$`, result.RunID)

	saved, err := repo.FindByID(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, simulation.RunStatusCompleted, saved.Status)
	assert.Equal(t, 3, saved.Agents)
	assert.Equal(t, result.Final.Tick, saved.Stats.Ticks)
	assert.NotNil(t, saved.EndedAt)
	assert.GreaterOrEqual(t, repo.saves, 2)

	assert.GreaterOrEqual(t, renderer.frames, 1)
	assert.Equal(t, renderer.frames, renderer.fogged)
	assert.Equal(t, renderer.frames, result.Frames)

	assert.Contains(t, sink.messages(), "Run started")
	assert.Contains(t, sink.messages(), "Run finished")
}

func TestRunSimulation_CancelledContextStopsRun(t *testing.T) {
	repo := newMemoryRunRepo()
	handler := commands.NewRunSimulationHandler(repo, nil, nil, nil)

	cfg := fastConfig()
	cfg.MaxTicks = 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := handler.Handle(ctx, &commands.RunSimulationCommand{Config: cfg})
	require.NoError(t, err)

	result := resp.(*commands.RunSimulationResponse)
	assert.Equal(t, simulation.RunStatusStopped, result.Status)
	assert.Empty(t, result.Final.Agents)
	assert.Equal(t, 3, result.Final.Stats.ShutdownReasons[swarm.ShutdownCancelled])
}

func TestRunSimulation_DurationBoundsRun(t *testing.T) {
	handler := commands.NewRunSimulationHandler(nil, nil, nil, nil)

	cfg := fastConfig()
	cfg.MaxTicks = 0

	start := time.Now()
	resp, err := handler.Handle(context.Background(), &commands.RunSimulationCommand{
		Config:   cfg,
		Duration: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, simulation.RunStatusCompleted, resp.(*commands.RunSimulationResponse).Status)
}

func TestRunSimulation_InvalidWorldRecordsFailure(t *testing.T) {
	repo := newMemoryRunRepo()
	handler := commands.NewRunSimulationHandler(repo, nil, nil, nil)

	cfg := fastConfig()
	cfg.Width, cfg.Height = 3, 3

	_, err := handler.Handle(context.Background(), &commands.RunSimulationCommand{Config: cfg})
	require.Error(t, err)

	require.Len(t, repo.runs, 1)
	for _, run := range repo.runs {
		assert.Equal(t, simulation.RunStatusFailed, run.Status)
		assert.NotEmpty(t, run.Error)
	}
}

func TestRunSimulation_RejectsWrongRequest(t *testing.T) {
	handler := commands.NewRunSimulationHandler(nil, nil, nil, nil)

	_, err := handler.Handle(context.Background(), "not a command")

	assert.Error(t, err)
}
