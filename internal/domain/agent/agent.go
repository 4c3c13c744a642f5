package agent

import (
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// Return reasons carried by ReturnToBase
const (
	ReasonLowEnergy = "low_energy"
	ReasonCargoFull = "cargo_full"
)

// Primary action failure reasons, for logging only
const (
	FailInsufficientEnergy = "insufficient_energy"
	FailCapacityExceeded   = "capacity_exceeded"
	FailResourceVanished   = "resource_vanished"
)

// Agent bundles everything a single agent goroutine owns
type Agent struct {
	*State
	Config    RoleConfig
	Knowledge *knowledge.AgentKnowledge
	Visited   VisitedSet
}

// New creates an agent at pos with fresh knowledge of a width x height grid
func New(id ID, role Role, pos shared.Point, cfg RoleConfig, width, height int) *Agent {
	return &Agent{
		State:     NewState(id, role, pos, cfg),
		Config:    cfg,
		Knowledge: knowledge.New(width, height),
		Visited:   make(VisitedSet),
	}
}

// AtStationCenter reports whether the agent stands on the docking tile
func (a *Agent) AtStationCenter() bool {
	return a.Position == a.Knowledge.StationCenter()
}

// EnergyLow reports whether energy is at or under the return threshold
func (a *Agent) EnergyLow() bool {
	return a.Energy.Current <= a.Config.LowEnergyThreshold
}

// Outcome is the result of a primary action attempt. A performed action
// replaces movement for the tick.
type Outcome struct {
	Performed bool
	Event     Event
	Failure   string
}

// Behavior is the role-specific part of the agent state machine
type Behavior interface {
	Role() Role
	// PrimaryAction tries the role's action on the current tile. A non-nil
	// error means the grid is unavailable.
	PrimaryAction(a *Agent, grid *world.Grid) (Outcome, error)
	// Target returns the tile to head for while active, if one is known
	Target(a *Agent) (shared.Point, bool)
	// MoveCost is the energy one step costs
	MoveCost(a *Agent) uint
	// ShouldReturn reports role-specific reasons to head home besides energy
	ShouldReturn(a *Agent) (string, bool)
	// Moved returns the event to publish after a successful active move, or nil
	Moved(a *Agent, discovered int) Event
	// Docked adjusts cargo and role state after a successful merge
	Docked(a *Agent)
}

// NewBehavior builds the behavior for role
func NewBehavior(role Role, collectorTarget shared.ResourceType, modules []ScienceModule) Behavior {
	switch role {
	case RoleCollector:
		return NewCollector(collectorTarget)
	case RoleScientist:
		return NewScientist(modules)
	default:
		return Explorer{}
	}
}
