package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

const (
	// Namespace for all metrics
	namespace = "swarm"
	// Subsystem for simulation metrics
	subsystem = "sim"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalSwarmCollector is the singleton swarm metrics collector
	// Set by SetGlobalSwarmCollector() when metrics are enabled
	globalSwarmCollector SwarmMetricsRecorder
)

// SwarmMetricsRecorder defines the interface for recording swarm events.
// Application code records through the package-level functions below, which
// are no-ops while metrics are disabled.
type SwarmMetricsRecorder interface {
	RecordEvent(kind agent.EventKind)
	RecordAgentMove(role agent.Role)
	RecordResourceCollected(resourceType shared.ResourceType, amount uint)
	RecordScienceValue(amount uint)
	RecordMerge(tilesApplied int, duration time.Duration)
	RecordDockOutcome(role agent.Role, outcome string)
	RecordAgentShutdown(role agent.Role, fatal bool)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalSwarmCollector sets the global swarm collector
func SetGlobalSwarmCollector(collector SwarmMetricsRecorder) {
	globalSwarmCollector = collector
}

// RecordEvent counts an event drained from the bus
func RecordEvent(kind agent.EventKind) {
	if globalSwarmCollector != nil {
		globalSwarmCollector.RecordEvent(kind)
	}
}

// RecordAgentMove counts a successful step
func RecordAgentMove(role agent.Role) {
	if globalSwarmCollector != nil {
		globalSwarmCollector.RecordAgentMove(role)
	}
}

// RecordResourceCollected adds a collected deposit to the totals
func RecordResourceCollected(resourceType shared.ResourceType, amount uint) {
	if globalSwarmCollector != nil {
		globalSwarmCollector.RecordResourceCollected(resourceType, amount)
	}
}

// RecordScienceValue adds an analysis result to the totals
func RecordScienceValue(amount uint) {
	if globalSwarmCollector != nil {
		globalSwarmCollector.RecordScienceValue(amount)
	}
}

// RecordMerge records one station merge
func RecordMerge(tilesApplied int, duration time.Duration) {
	if globalSwarmCollector != nil {
		globalSwarmCollector.RecordMerge(tilesApplied, duration)
	}
}

// RecordDockOutcome records how a docking wait ended: merged, timeout or disconnected
func RecordDockOutcome(role agent.Role, outcome string) {
	if globalSwarmCollector != nil {
		globalSwarmCollector.RecordDockOutcome(role, outcome)
	}
}

// RecordAgentShutdown counts an agent task ending
func RecordAgentShutdown(role agent.Role, fatal bool) {
	if globalSwarmCollector != nil {
		globalSwarmCollector.RecordAgentShutdown(role, fatal)
	}
}
