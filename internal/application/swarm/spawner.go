package swarm

import (
	"errors"
	"fmt"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// ErrNotEnoughSpawnPositions aborts construction when the grid cannot hold
// every requested agent on its own tile
var ErrNotEnoughSpawnPositions = errors.New("not enough walkable spawn positions")

// RoleCounts is how many agents of each role to spawn
type RoleCounts struct {
	Explorers  int
	Collectors int
	Scientists int
}

// Total is the number of agents requested
func (c RoleCounts) Total() int {
	return c.Explorers + c.Collectors + c.Scientists
}

// Roles expands the counts into spawn order: explorers, collectors, scientists
func (c RoleCounts) Roles() []agent.Role {
	roles := make([]agent.Role, 0, c.Total())
	for i := 0; i < c.Explorers; i++ {
		roles = append(roles, agent.RoleExplorer)
	}
	for i := 0; i < c.Collectors; i++ {
		roles = append(roles, agent.RoleCollector)
	}
	for i := 0; i < c.Scientists; i++ {
		roles = append(roles, agent.RoleScientist)
	}
	return roles
}

// SpawnPositions picks n distinct tiles outside the station zone, nearest the
// station first. Only tiles connected to the station are considered.
func SpawnPositions(g *world.Grid, n int) ([]shared.Point, error) {
	var positions []shared.Point
	for _, p := range g.ReachableTiles() {
		if len(positions) == n {
			break
		}
		if g.IsStation(p) {
			continue
		}
		positions = append(positions, p)
	}
	if len(positions) < n {
		return nil, fmt.Errorf("%w: need %d, found %d", ErrNotEnoughSpawnPositions, n, len(positions))
	}
	return positions, nil
}
