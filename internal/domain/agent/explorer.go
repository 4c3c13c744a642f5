package agent

import (
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// Explorer has no primary action; it maps the grid by walking it
type Explorer struct{}

func (Explorer) Role() Role { return RoleExplorer }

func (Explorer) PrimaryAction(*Agent, *world.Grid) (Outcome, error) {
	return Outcome{}, nil
}

func (Explorer) Target(*Agent) (shared.Point, bool) {
	return shared.Point{}, false
}

func (Explorer) MoveCost(a *Agent) uint { return a.Config.MovementCost }

func (Explorer) ShouldReturn(*Agent) (string, bool) { return "", false }

func (Explorer) Moved(a *Agent, discovered int) Event {
	return ExplorationData{Agent: a.ID, Position: a.Position, Discovered: discovered}
}

func (Explorer) Docked(a *Agent) {
	a.Cargo.Clear()
}
