package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

const (
	// noiseScale divides tile coordinates before sampling the noise field
	noiseScale = 10.0
	// obstacleThreshold is the noise value above which a tile is an obstacle
	obstacleThreshold = 0.0
)

// GenerateTerrain builds a deterministic terrain for seed. Obstacles come from a
// simplex noise field; the station zone is forced walkable and every isolated
// walkable region is joined to the station's region by an L-shaped corridor.
func GenerateTerrain(width, height int, seed int64) []Terrain {
	noise := opensimplex.New(seed)
	cells := make([]Terrain, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if noise.Eval2(float64(x)/noiseScale, float64(y)/noiseScale) > obstacleThreshold {
				cells[y*width+x] = Obstacle
			}
		}
	}
	for _, p := range StationZoneFor(width, height) {
		cells[p.Y*width+p.X] = Walkable
	}
	connectRegions(cells, width, height)
	return cells
}

// NewGeneratedGrid creates a grid with generated terrain and spawned resources
func NewGeneratedGrid(width, height int, terrainSeed, resourceSeed int64, resourceCount int) (*Grid, error) {
	g, err := NewGrid(width, height, GenerateTerrain(width, height, terrainSeed))
	if err != nil {
		return nil, err
	}
	if err := SpawnResources(g, resourceCount, resourceSeed); err != nil {
		return nil, err
	}
	return g, nil
}

// connectRegions carves corridors so that every walkable region touches the
// region containing the station center.
func connectRegions(cells []Terrain, width, height int) {
	station := StationCenterFor(width, height)
	visited := make([]bool, len(cells))

	floodFill(cells, visited, width, height, station)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if cells[i] != Walkable || visited[i] {
				continue
			}
			start := shared.Pt(x, y)
			floodFill(cells, visited, width, height, start)
			carvePath(cells, width, station, start)
		}
	}
}

// floodFill marks the walkable region containing start and returns its tiles
func floodFill(cells []Terrain, visited []bool, width, height int, start shared.Point) []shared.Point {
	var region []shared.Point
	queue := []shared.Point{start}
	visited[start.Y*width+start.X] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		region = append(region, p)
		for _, n := range p.Neighbors() {
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
				continue
			}
			i := n.Y*width + n.X
			if !visited[i] && cells[i] == Walkable {
				visited[i] = true
				queue = append(queue, n)
			}
		}
	}
	return region
}

// carvePath clears a horizontal then vertical corridor from a to b
func carvePath(cells []Terrain, width int, a, b shared.Point) {
	x, y := a.X, a.Y
	for x != b.X {
		cells[y*width+x] = Walkable
		if x < b.X {
			x++
		} else {
			x--
		}
	}
	for y != b.Y {
		cells[y*width+x] = Walkable
		if y < b.Y {
			y++
		} else {
			y--
		}
	}
	cells[y*width+x] = Walkable
}

const (
	minResourceAmount = 10
	maxResourceAmount = 100 // exclusive
)

// SpawnResources places count deposits on distinct walkable tiles outside the
// station zone. Types are uniform over all resource types and amounts fall in
// [10,100). The placement is deterministic for seed.
func SpawnResources(g *Grid, count int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	var candidates []shared.Point
	for _, p := range g.WalkableTiles() {
		if !g.IsStation(p) {
			candidates = append(candidates, p)
		}
	}
	if count > len(candidates) {
		count = len(candidates)
	}

	return g.Update(func(tx *Tx) error {
		for _, i := range rng.Perm(len(candidates))[:count] {
			t := shared.AllResourceTypes[rng.Intn(len(shared.AllResourceTypes))]
			amount := uint(minResourceAmount + rng.Intn(maxResourceAmount-minResourceAmount))
			if err := tx.AddResource(candidates[i], t, amount); err != nil {
				return err
			}
		}
		return nil
	})
}
