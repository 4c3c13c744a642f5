package agent

import (
	"fmt"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// ID identifies an agent for the lifetime of a simulation
type ID int

func (id ID) String() string {
	return fmt.Sprintf("agent-%d", int(id))
}

// State is the mutable body of one agent. Only the goroutine running the agent
// touches it.
type State struct {
	ID       ID
	Role     Role
	Position shared.Point
	Energy   shared.Energy
	Cargo    *shared.Cargo
	Status   Status
}

// NewState creates an agent with full energy and an empty hold
func NewState(id ID, role Role, pos shared.Point, cfg RoleConfig) *State {
	return &State{
		ID:       id,
		Role:     role,
		Position: pos,
		Energy:   shared.NewEnergy(cfg.MaxEnergy),
		Cargo:    shared.NewCargo(cfg.MaxCapacity),
		Status:   StatusActive,
	}
}

// UseEnergy spends amount. Fails when amount exceeds the charge, clamping the
// charge to zero.
func (s *State) UseEnergy(amount uint) bool {
	return s.Energy.Use(amount)
}

// CollectResource loads amount of t, all or nothing
func (s *State) CollectResource(t shared.ResourceType, amount uint) bool {
	return s.Cargo.Load(t, amount) == nil
}

// Snapshot copies the state for readers outside the agent goroutine
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		Role:      s.Role,
		Position:  s.Position,
		Energy:    s.Energy.Current,
		MaxEnergy: s.Energy.Capacity,
		Carried:   s.Cargo.Snapshot(),
		Capacity:  s.Cargo.Capacity,
		Status:    s.Status,
	}
}

// Snapshot is an immutable copy of an agent's state
type Snapshot struct {
	ID        ID
	Role      Role
	Position  shared.Point
	Energy    uint
	MaxEnergy uint
	Carried   map[shared.ResourceType]uint
	Capacity  uint
	Status    Status
}

// CarriedTotal sums the carried amounts
func (s Snapshot) CarriedTotal() uint {
	var total uint
	for _, amount := range s.Carried {
		total += amount
	}
	return total
}
