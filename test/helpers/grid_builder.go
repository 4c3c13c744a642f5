package helpers

import (
	"testing"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// NewGridFromRows builds a grid from ASCII rows of equal width:
//
//	'#' obstacle, 'E' energy, 'M' minerals, 'S' science points, anything else walkable
//
// Deposits get the given amount. The station zone is forced walkable by the
// grid itself, so rows should leave it open.
func NewGridFromRows(t *testing.T, amount uint, rows ...string) *world.Grid {
	t.Helper()
	if len(rows) == 0 {
		t.Fatalf("grid needs at least one row")
	}

	width, height := len(rows[0]), len(rows)
	cells := make([]world.Terrain, width*height)
	deposits := make(map[shared.Point]shared.ResourceType)

	for y, row := range rows {
		if len(row) != width {
			t.Fatalf("row %d has width %d, want %d", y, len(row), width)
		}
		for x, c := range row {
			switch c {
			case '#':
				cells[y*width+x] = world.Obstacle
			case 'E':
				deposits[shared.Pt(x, y)] = shared.ResourceEnergy
			case 'M':
				deposits[shared.Pt(x, y)] = shared.ResourceMinerals
			case 'S':
				deposits[shared.Pt(x, y)] = shared.ResourceSciencePoints
			}
		}
	}

	g, err := world.NewGrid(width, height, cells)
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}
	for p, rt := range deposits {
		if err := g.AddResource(p, rt, amount); err != nil {
			t.Fatalf("failed to place %s at %s: %v", rt, p, err)
		}
	}
	return g
}

// NewOpenGrid builds an all-walkable grid
func NewOpenGrid(t *testing.T, width, height int) *world.Grid {
	t.Helper()
	g, err := world.NewGrid(width, height, nil)
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}
	return g
}
