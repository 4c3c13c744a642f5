package agent

import (
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// Collector lifts consumable deposits of one type off the grid
type Collector struct {
	target shared.ResourceType
}

// NewCollector creates a collector for t. SciencePoints cannot be collected and
// fall back to Minerals.
func NewCollector(t shared.ResourceType) *Collector {
	if !t.IsConsumable() {
		t = shared.ResourceMinerals
	}
	return &Collector{target: t}
}

// TargetType is the resource type the collector gathers
func (c *Collector) TargetType() shared.ResourceType { return c.target }

func (c *Collector) Role() Role { return RoleCollector }

// PrimaryAction collects the deposit under the agent. The action cost is paid
// up front; the deposit is re-checked and removed inside one exclusive grid
// section, and the load is all or nothing.
func (c *Collector) PrimaryAction(a *Agent, grid *world.Grid) (Outcome, error) {
	pos := a.Position
	if !a.Knowledge.Tile(pos).Holds(c.target) {
		return Outcome{}, nil
	}
	if !a.UseEnergy(a.Config.ActionCost) {
		return Outcome{Failure: FailInsufficientEnergy}, nil
	}

	var taken shared.Resource
	failure := ""
	err := grid.Update(func(tx *world.Tx) error {
		res, ok := tx.GetResource(pos)
		if !ok || res.Type != c.target {
			failure = FailResourceVanished
			return a.Knowledge.Observe(tx, pos)
		}
		if !a.CollectResource(res.Type, res.Amount) {
			failure = FailCapacityExceeded
			return nil
		}
		taken, _ = tx.RemoveResource(pos)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	if failure != "" {
		return Outcome{Failure: failure}, nil
	}

	_ = a.Knowledge.Update(pos, knowledge.Walkable)
	return Outcome{
		Performed: true,
		Event:     CollectionData{Agent: a.ID, Position: pos, Resource: taken},
	}, nil
}

// Target is the nearest known deposit of the target type. Whether it fits in
// the hold is only decided when collecting.
func (c *Collector) Target(a *Agent) (shared.Point, bool) {
	return a.Knowledge.Nearest(a.Position, func(_ shared.Point, info knowledge.TileInfo) bool {
		return info.Holds(c.target)
	})
}

func (c *Collector) MoveCost(a *Agent) uint { return a.Config.MovementCost }

func (c *Collector) ShouldReturn(a *Agent) (string, bool) {
	if a.Cargo.IsFull() {
		return ReasonCargoFull, true
	}
	return "", false
}

func (c *Collector) Moved(*Agent, int) Event { return nil }

func (c *Collector) Docked(a *Agent) {
	a.Cargo.Clear()
}
