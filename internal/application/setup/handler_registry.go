package setup

import (
	"reflect"

	"github.com/andrescamacho/swarm-go/internal/adapters/metrics"
	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/mediator"
	swarmCommands "github.com/andrescamacho/swarm-go/internal/application/swarm/commands"
	swarmQueries "github.com/andrescamacho/swarm-go/internal/application/swarm/queries"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
)

// Renderer is what the run and preview handlers need from a frame renderer
type Renderer interface {
	swarmCommands.FrameRenderer
	swarmQueries.GridFramer
}

// JournalStore persists and reads back run journals
type JournalStore interface {
	logging.JournalSink
	swarmQueries.RunLogReader
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	runRepo  simulation.RunRepository
	journal  JournalStore
	renderer Renderer
	clock    shared.Clock
}

// NewHandlerRegistry creates a new handler registry. runRepo and journal may
// be nil when persistence is disabled; the run-history queries are then not
// registered.
func NewHandlerRegistry(
	runRepo simulation.RunRepository,
	journal JournalStore,
	renderer Renderer,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		runRepo:  runRepo,
		journal:  journal,
		renderer: renderer,
		clock:    clock,
	}
}

// RegisterSimulationHandlers registers:
//   - RunSimulationCommand → RunSimulationHandler
//   - PreviewWorldQuery → PreviewWorldHandler
func (r *HandlerRegistry) RegisterSimulationHandlers(m mediator.Mediator) error {
	var journal logging.JournalSink
	if r.journal != nil {
		journal = r.journal
	}
	var frameRenderer swarmCommands.FrameRenderer
	var gridFramer swarmQueries.GridFramer
	if r.renderer != nil {
		frameRenderer, gridFramer = r.renderer, r.renderer
	}

	runHandler := swarmCommands.NewRunSimulationHandler(r.runRepo, journal, frameRenderer, r.clock)
	if err := m.Register(
		reflect.TypeOf(&swarmCommands.RunSimulationCommand{}),
		runHandler,
	); err != nil {
		return err
	}

	previewHandler := swarmQueries.NewPreviewWorldHandler(gridFramer)
	if err := m.Register(
		reflect.TypeOf(&swarmQueries.PreviewWorldQuery{}),
		previewHandler,
	); err != nil {
		return err
	}

	return nil
}

// RegisterHistoryHandlers registers:
//   - ListRunsQuery → ListRunsHandler
//   - GetRunLogsQuery → GetRunLogsHandler
func (r *HandlerRegistry) RegisterHistoryHandlers(m mediator.Mediator) error {
	listHandler := swarmQueries.NewListRunsHandler(r.runRepo)
	if err := m.Register(
		reflect.TypeOf(&swarmQueries.ListRunsQuery{}),
		listHandler,
	); err != nil {
		return err
	}

	logsHandler := swarmQueries.NewGetRunLogsHandler(r.runRepo, r.journal)
	if err := m.Register(
		reflect.TypeOf(&swarmQueries.GetRunLogsQuery{}),
		logsHandler,
	); err != nil {
		return err
	}

	return nil
}

// CreateConfiguredMediator creates a mediator with every available handler
// registered. A non-nil collector adds the Prometheus middleware.
func (r *HandlerRegistry) CreateConfiguredMediator(collector *metrics.RequestMetricsCollector) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	if collector != nil {
		m.RegisterMiddleware(metrics.PrometheusMiddleware(collector))
	}

	if err := r.RegisterSimulationHandlers(m); err != nil {
		return nil, err
	}

	// History needs persistence
	if r.runRepo != nil && r.journal != nil {
		if err := r.RegisterHistoryHandlers(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}
