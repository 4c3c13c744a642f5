package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// SwarmSnapshot is the polled view of a running simulation
type SwarmSnapshot struct {
	Agents   []agent.Snapshot
	Coverage float64
	Stalled  int
}

// SwarmMetricsCollector handles all swarm metrics. Counters are pushed by the
// application; gauges are refreshed by polling a snapshot function.
type SwarmMetricsCollector struct {
	// Dependencies
	snapshot func() SwarmSnapshot

	// Event metrics
	eventsTotal    *prometheus.CounterVec
	movesTotal     *prometheus.CounterVec
	collectedTotal *prometheus.CounterVec
	scienceTotal   prometheus.Counter

	// Station metrics
	mergesTotal       prometheus.Counter
	mergeDuration     prometheus.Histogram
	mergeTilesApplied prometheus.Histogram
	dockOutcomes      *prometheus.CounterVec
	shutdownsTotal    *prometheus.CounterVec

	// Polled gauges
	agentsByStatus *prometheus.GaugeVec
	agentEnergy    *prometheus.GaugeVec
	coverage       prometheus.Gauge
	stalledAgents  prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewSwarmMetricsCollector creates a new swarm metrics collector
func NewSwarmMetricsCollector(snapshot func() SwarmSnapshot) *SwarmMetricsCollector {
	return &SwarmMetricsCollector{
		snapshot: snapshot,

		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_total",
				Help:      "Total number of bus events by kind",
			},
			[]string{"kind"},
		),
		movesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agent_moves_total",
				Help:      "Total number of successful agent steps by role",
			},
			[]string{"role"},
		),
		collectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resources_collected_total",
				Help:      "Total units lifted off the grid by resource type",
			},
			[]string{"resource_type"},
		),
		scienceTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "science_value_total",
				Help:      "Total analyzed science value",
			},
		),
		mergesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "station_merges_total",
				Help:      "Total number of knowledge merges performed by the station",
			},
		),
		mergeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "station_merge_duration_seconds",
				Help:      "Knowledge merge duration distribution",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		mergeTilesApplied: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "station_merge_tiles_applied",
				Help:      "Tiles accepted per merge",
				Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
			},
		),
		dockOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dock_outcomes_total",
				Help:      "Docking waits by role and outcome",
			},
			[]string{"role", "outcome"},
		),
		shutdownsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agent_shutdowns_total",
				Help:      "Agent task exits by role and whether they were fatal",
			},
			[]string{"role", "fatal"},
		),
		agentsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agents",
				Help:      "Number of live agents by role and status",
			},
			[]string{"role", "status"},
		),
		agentEnergy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agent_energy",
				Help:      "Current energy per agent",
			},
			[]string{"agent", "role"},
		),
		coverage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "station_knowledge_coverage_ratio",
				Help:      "Share of the grid known to the station",
			},
		),
		stalledAgents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stalled_agents",
				Help:      "Agents silent for longer than the stall timeout",
			},
		),
	}
}

func (c *SwarmMetricsCollector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.eventsTotal,
		c.movesTotal,
		c.collectedTotal,
		c.scienceTotal,
		c.mergesTotal,
		c.mergeDuration,
		c.mergeTilesApplied,
		c.dockOutcomes,
		c.shutdownsTotal,
		c.agentsByStatus,
		c.agentEnergy,
		c.coverage,
		c.stalledAgents,
	}
}

// Register registers all metrics with the Prometheus registry
func (c *SwarmMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range c.collectors() {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes the metrics so a later run can register a fresh collector
func (c *SwarmMetricsCollector) Unregister() {
	if Registry == nil {
		return
	}
	for _, metric := range c.collectors() {
		Registry.Unregister(metric)
	}
}

// Start begins polling the snapshot function every interval
func (c *SwarmMetricsCollector) Start(ctx context.Context, interval time.Duration) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.collectGauges(interval)
}

// Stop gracefully stops the metrics collection
func (c *SwarmMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *SwarmMetricsCollector) collectGauges(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.UpdateGauges()
		}
	}
}

// UpdateGauges refreshes the polled gauges from a fresh snapshot
func (c *SwarmMetricsCollector) UpdateGauges() {
	if c.snapshot == nil {
		return
	}
	snap := c.snapshot()

	// Reset to drop agents that shut down
	c.agentsByStatus.Reset()
	c.agentEnergy.Reset()

	for _, a := range snap.Agents {
		c.agentsByStatus.WithLabelValues(a.Role.String(), a.Status.String()).Inc()
		c.agentEnergy.WithLabelValues(a.ID.String(), a.Role.String()).Set(float64(a.Energy))
	}
	c.coverage.Set(snap.Coverage)
	c.stalledAgents.Set(float64(snap.Stalled))
}

func (c *SwarmMetricsCollector) RecordEvent(kind agent.EventKind) {
	c.eventsTotal.WithLabelValues(string(kind)).Inc()
}

func (c *SwarmMetricsCollector) RecordAgentMove(role agent.Role) {
	c.movesTotal.WithLabelValues(role.String()).Inc()
}

func (c *SwarmMetricsCollector) RecordResourceCollected(resourceType shared.ResourceType, amount uint) {
	c.collectedTotal.WithLabelValues(resourceType.String()).Add(float64(amount))
}

func (c *SwarmMetricsCollector) RecordScienceValue(amount uint) {
	c.scienceTotal.Add(float64(amount))
}

func (c *SwarmMetricsCollector) RecordMerge(tilesApplied int, duration time.Duration) {
	c.mergesTotal.Inc()
	c.mergeDuration.Observe(duration.Seconds())
	c.mergeTilesApplied.Observe(float64(tilesApplied))
}

func (c *SwarmMetricsCollector) RecordDockOutcome(role agent.Role, outcome string) {
	c.dockOutcomes.WithLabelValues(role.String(), outcome).Inc()
}

func (c *SwarmMetricsCollector) RecordAgentShutdown(role agent.Role, fatal bool) {
	label := "false"
	if fatal {
		label = "true"
	}
	c.shutdownsTotal.WithLabelValues(role.String(), label).Inc()
}

var _ SwarmMetricsRecorder = (*SwarmMetricsCollector)(nil)
