package agent

import "github.com/andrescamacho/swarm-go/internal/domain/shared"

// Direction is one of the four orthogonal moves
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// AllDirections in canonical order
var AllDirections = [4]Direction{Up, Down, Left, Right}

// Delta returns the unit offset of the direction
func (d Direction) Delta() shared.Point {
	switch d {
	case Up:
		return shared.Pt(0, -1)
	case Down:
		return shared.Pt(0, 1)
	case Left:
		return shared.Pt(-1, 0)
	default:
		return shared.Pt(1, 0)
	}
}

// From returns the neighbor of p in this direction
func (d Direction) From(p shared.Point) shared.Point {
	return p.Add(d.Delta())
}

func (d Direction) String() string {
	return [...]string{"up", "down", "left", "right"}[d]
}
