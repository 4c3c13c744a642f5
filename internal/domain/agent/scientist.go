package agent

import (
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// Scientist analyzes SciencePoints deposits without consuming them. A deposit
// analyzed during the current cycle is skipped until the next docking.
type Scientist struct {
	modules  Modules
	analyzed VisitedSet
}

// NewScientist creates a scientist carrying modules
func NewScientist(modules []ScienceModule) *Scientist {
	return &Scientist{
		modules:  append(Modules(nil), modules...),
		analyzed: make(VisitedSet),
	}
}

// Modules returns the installed loadout
func (s *Scientist) Modules() Modules { return s.modules }

func (s *Scientist) Role() Role { return RoleScientist }

// PrimaryAction analyzes the deposit under the agent. The deposit stays on the
// grid; only its value is recorded in the hold.
func (s *Scientist) PrimaryAction(a *Agent, grid *world.Grid) (Outcome, error) {
	pos := a.Position
	if !a.Knowledge.Tile(pos).Holds(shared.ResourceSciencePoints) || s.analyzed.Has(pos) {
		return Outcome{}, nil
	}
	if !a.UseEnergy(a.Config.ActionCost + s.modules.PassiveCost()) {
		return Outcome{Failure: FailInsufficientEnergy}, nil
	}

	var base uint
	found := false
	err := grid.View(func(r world.Reader) error {
		res, ok := r.GetResource(pos)
		if !ok || res.Type != shared.ResourceSciencePoints {
			return a.Knowledge.Observe(r, pos)
		}
		base, found = res.Amount, true
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	if !found {
		return Outcome{Failure: FailResourceVanished}, nil
	}

	value := base + s.modules.TotalBonus()
	if !a.CollectResource(shared.ResourceSciencePoints, value) {
		return Outcome{Failure: FailCapacityExceeded}, nil
	}
	s.analyzed.Add(pos)

	return Outcome{
		Performed: true,
		Event: ScienceData{
			Agent:    a.ID,
			Position: pos,
			Amount:   value,
			Modules:  s.modules.Names(),
		},
	}, nil
}

// Target is the nearest known SciencePoints deposit not yet analyzed this
// cycle
func (s *Scientist) Target(a *Agent) (shared.Point, bool) {
	return a.Knowledge.Nearest(a.Position, func(p shared.Point, info knowledge.TileInfo) bool {
		return info.Holds(shared.ResourceSciencePoints) && !s.analyzed.Has(p)
	})
}

func (s *Scientist) MoveCost(a *Agent) uint {
	return a.Config.MovementCost + s.modules.PassiveCost()
}

func (s *Scientist) ShouldReturn(*Agent) (string, bool) { return "", false }

func (s *Scientist) Moved(*Agent, int) Event { return nil }

// Docked drops the reported science tally and forgets analyzed deposits
func (s *Scientist) Docked(a *Agent) {
	a.Cargo.Discard(shared.ResourceSciencePoints)
	s.analyzed.Clear()
}
