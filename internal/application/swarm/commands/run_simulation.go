package commands

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/swarm-go/internal/adapters/metrics"
	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/mediator"
	"github.com/andrescamacho/swarm-go/internal/application/swarm"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
	"github.com/andrescamacho/swarm-go/pkg/utils"
)

// FrameRenderer draws the live simulation
type FrameRenderer interface {
	Render(g *world.Grid, agents []agent.Snapshot, fog *knowledge.AgentKnowledge, coverage float64) error
}

// RunSimulationCommand runs one simulation to completion
type RunSimulationCommand struct {
	Config swarm.Config

	// Duration bounds the run; zero runs until ctx is cancelled, MaxTicks is
	// reached or every agent has shut down
	Duration time.Duration

	// RenderInterval throttles frames; zero disables rendering
	RenderInterval time.Duration

	// Fog draws the station's fused knowledge instead of the true grid
	Fog bool

	MetricsPollInterval time.Duration
}

// RunSimulationResponse reports how a run ended
type RunSimulationResponse struct {
	RunID   string
	Status  simulation.RunStatus
	Final   swarm.Snapshot
	Elapsed time.Duration
	Frames  int
}

// RunSimulationHandler wires a simulation to the journal, the run repository,
// the renderer and the metrics collector. Every collaborator is optional.
type RunSimulationHandler struct {
	runRepo  simulation.RunRepository
	journal  logging.JournalSink
	renderer FrameRenderer
	clock    shared.Clock
}

// NewRunSimulationHandler creates a new RunSimulationHandler
func NewRunSimulationHandler(
	runRepo simulation.RunRepository,
	journal logging.JournalSink,
	renderer FrameRenderer,
	clock shared.Clock,
) *RunSimulationHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RunSimulationHandler{
		runRepo:  runRepo,
		journal:  journal,
		renderer: renderer,
		clock:    clock,
	}
}

// Handle executes the RunSimulation command
func (h *RunSimulationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RunSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RunSimulationCommand")
	}

	runID := utils.GenerateRunID("sim", cmd.Config.Width, cmd.Config.Height)
	logger := logging.LoggerFromContext(ctx)
	if h.journal != nil {
		j := logging.NewJournal(logger, h.journal, runID)
		defer j.Close()
		logger = j
	}
	ctx = logging.WithLogger(ctx, logger)

	lc := simulation.NewLifecycle(h.clock)
	record := func(stats simulation.Stats) {
		h.saveRun(ctx, runID, cmd.Config, lc, stats)
	}

	sim, err := swarm.NewSimulation(cmd.Config, h.clock)
	if err != nil {
		_ = lc.Fail(err)
		record(*simulation.NewStats())
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	stopMetrics := h.startMetrics(ctx, sim, cmd.MetricsPollInterval)
	defer stopMetrics()

	runCtx := ctx
	if cmd.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Duration)
		defer cancel()
	}

	if err := lc.Start(); err != nil {
		return nil, err
	}
	record(*simulation.NewStats())

	logger.Log(logging.LevelInfo, "Run started", map[string]interface{}{
		"run_id":    runID,
		"width":     cmd.Config.Width,
		"height":    cmd.Config.Height,
		"agents":    cmd.Config.Agents.Total(),
		"resources": cmd.Config.ResourceCount,
	})

	frames := 0
	var onTick func(swarm.Snapshot)
	if h.renderer != nil && cmd.RenderInterval > 0 {
		limiter := rate.NewLimiter(rate.Every(cmd.RenderInterval), 1)
		onTick = func(snap swarm.Snapshot) {
			if !limiter.Allow() {
				return
			}
			var fog *knowledge.AgentKnowledge
			if cmd.Fog {
				fog = sim.GlobalKnowledge()
			}
			if err := h.renderer.Render(sim.Grid(), snap.Agents, fog, snap.Coverage); err != nil {
				logger.Log(logging.LevelWarning, "Frame render failed", map[string]interface{}{
					"run_id": runID,
					"error":  err.Error(),
				})
				return
			}
			frames++
		}
	}

	runErr := sim.Run(runCtx, onTick)
	final := sim.Snapshot()

	switch {
	case runErr != nil:
		_ = lc.Fail(runErr)
	case ctx.Err() != nil:
		_ = lc.Stop()
	default:
		_ = lc.Complete()
	}
	record(final.Stats)

	logger.Log(logging.LevelInfo, "Run finished", map[string]interface{}{
		"run_id":   runID,
		"status":   string(lc.Status()),
		"ticks":    final.Tick,
		"merges":   final.Stats.Merges,
		"coverage": utils.Percent(final.Coverage, 1),
	})

	if runErr != nil {
		return nil, fmt.Errorf("simulation %s failed: %w", runID, runErr)
	}
	return &RunSimulationResponse{
		RunID:   runID,
		Status:  lc.Status(),
		Final:   final,
		Elapsed: lc.Duration(),
		Frames:  frames,
	}, nil
}

// startMetrics registers a swarm collector for this run when metrics are
// enabled. The returned func unregisters it.
func (h *RunSimulationHandler) startMetrics(ctx context.Context, sim *swarm.Simulation, interval time.Duration) func() {
	if !metrics.IsEnabled() {
		return func() {}
	}
	if interval <= 0 {
		interval = time.Second
	}

	collector := metrics.NewSwarmMetricsCollector(sim.MetricsSnapshot)
	if err := collector.Register(); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarning, "Swarm metrics unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return func() {}
	}
	metrics.SetGlobalSwarmCollector(collector)
	collector.Start(ctx, interval)

	return func() {
		collector.Stop()
		collector.UpdateGauges()
		metrics.SetGlobalSwarmCollector(nil)
		collector.Unregister()
	}
}

func (h *RunSimulationHandler) saveRun(ctx context.Context, runID string, cfg swarm.Config, lc *simulation.Lifecycle, stats simulation.Stats) {
	if h.runRepo == nil {
		return
	}
	run := simulation.NewRunRecord(runID, lc, stats)
	run.Width = cfg.Width
	run.Height = cfg.Height
	run.TerrainSeed = cfg.TerrainSeed
	run.ResourceSeed = cfg.ResourceSeed
	run.Agents = cfg.Agents.Total()

	if err := h.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelError, "Failed to save run", map[string]interface{}{
			"run_id": runID,
			"error":  err.Error(),
		})
	}
}
