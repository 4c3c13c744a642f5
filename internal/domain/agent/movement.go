package agent

import (
	"math/rand"

	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// randomAttempts bounds the random fallback of directed movement
const randomAttempts = 8

// VisitedSet records the tiles stepped on during the current cycle
type VisitedSet map[shared.Point]struct{}

func (v VisitedSet) Add(p shared.Point) { v[p] = struct{}{} }

func (v VisitedSet) Has(p shared.Point) bool {
	_, ok := v[p]
	return ok
}

// Clear empties the set in place
func (v VisitedSet) Clear() {
	for p := range v {
		delete(v, p)
	}
}

// DirectedStep picks a step from `from` toward target. Candidates are tried in
// order: the axis with the larger offset, the other axis, the four absolute
// directions, then up to eight random directions. The first candidate that
// stays in bounds, is not a known obstacle and passes open is returned.
func DirectedStep(from, target shared.Point, k *knowledge.AgentKnowledge, open func(shared.Point) bool, rng *rand.Rand) (Direction, bool) {
	if from == target {
		return 0, false
	}

	canEnter := func(d Direction) bool {
		next := d.From(from)
		return k.InBounds(next) && k.Tile(next).Kind != knowledge.KindObstacle && open(next)
	}

	offset := target.Sub(from)
	var axes []Direction
	horizontal, hasH := horizontalToward(offset.X)
	vertical, hasV := verticalToward(offset.Y)
	if abs(offset.X) >= abs(offset.Y) {
		axes = appendIf(axes, horizontal, hasH)
		axes = appendIf(axes, vertical, hasV)
	} else {
		axes = appendIf(axes, vertical, hasV)
		axes = appendIf(axes, horizontal, hasH)
	}

	for _, d := range axes {
		if canEnter(d) {
			return d, true
		}
	}
	for _, d := range AllDirections {
		if canEnter(d) {
			return d, true
		}
	}
	for i := 0; i < randomAttempts; i++ {
		if d := AllDirections[rng.Intn(len(AllDirections))]; canEnter(d) {
			return d, true
		}
	}
	return 0, false
}

// ExploreStep picks a step when no target is known. Neighbors are ranked into
// tiers: unvisited deposits, unvisited walkable or station tiles, then any
// visited passable tile. Unknown and obstacle tiles are never entered. Ties
// within the best tier break uniformly at random.
func ExploreStep(from shared.Point, k *knowledge.AgentKnowledge, visited VisitedSet, rng *rand.Rand) (Direction, bool) {
	var deposits, fresh, fallback []Direction

	for _, d := range AllDirections {
		next := d.From(from)
		if !k.InBounds(next) {
			continue
		}
		tile := k.Tile(next)
		if !tile.IsPassable() {
			continue
		}
		switch {
		case visited.Has(next):
			fallback = append(fallback, d)
		case tile.Kind == knowledge.KindResource && tile.Resource.Amount > 0:
			deposits = append(deposits, d)
		default:
			fresh = append(fresh, d)
		}
	}

	for _, tier := range [][]Direction{deposits, fresh, fallback} {
		if len(tier) > 0 {
			return tier[rng.Intn(len(tier))], true
		}
	}
	return 0, false
}

func horizontalToward(dx int) (Direction, bool) {
	switch {
	case dx > 0:
		return Right, true
	case dx < 0:
		return Left, true
	}
	return 0, false
}

func verticalToward(dy int) (Direction, bool) {
	switch {
	case dy > 0:
		return Down, true
	case dy < 0:
		return Up, true
	}
	return 0, false
}

func appendIf(ds []Direction, d Direction, ok bool) []Direction {
	if ok {
		return append(ds, d)
	}
	return ds
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
