package knowledge

import (
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// AgentKnowledge is a private, full-size map of what one agent believes about
// the grid. It is plain data and must not be shared between goroutines
// without a Clone.
type AgentKnowledge struct {
	width  int
	height int
	tiles  []TileInfo
}

// New creates knowledge where every tile is Unknown except the station zone
func New(width, height int) *AgentKnowledge {
	k := &AgentKnowledge{
		width:  width,
		height: height,
		tiles:  make([]TileInfo, width*height),
	}
	for _, p := range world.StationZoneFor(width, height) {
		k.tiles[k.index(p)] = Station
	}
	return k
}

func (k *AgentKnowledge) Width() int  { return k.width }
func (k *AgentKnowledge) Height() int { return k.height }

// StationCenter returns the docking tile
func (k *AgentKnowledge) StationCenter() shared.Point {
	return world.StationCenterFor(k.width, k.height)
}

func (k *AgentKnowledge) index(p shared.Point) int {
	return p.Y*k.width + p.X
}

// InBounds reports whether p lies on the mapped area
func (k *AgentKnowledge) InBounds(p shared.Point) bool {
	return p.X >= 0 && p.X < k.width && p.Y >= 0 && p.Y < k.height
}

// Tile returns the belief about p; out-of-bounds tiles are Unknown
func (k *AgentKnowledge) Tile(p shared.Point) TileInfo {
	if !k.InBounds(p) {
		return Unknown
	}
	return k.tiles[k.index(p)]
}

// Update overwrites the belief about p
func (k *AgentKnowledge) Update(p shared.Point, info TileInfo) error {
	if !k.InBounds(p) {
		return shared.NewOutOfBoundsError(p.X, p.Y)
	}
	k.tiles[k.index(p)] = info
	return nil
}

// Classify derives the ground-truth TileInfo for p from a grid view.
// Precedence: Station, Obstacle, Resource with amount > 0, Walkable.
func Classify(r world.Reader, p shared.Point) TileInfo {
	switch {
	case r.IsStation(p):
		return Station
	case r.IsObstacle(p):
		return Obstacle
	}
	if res, ok := r.GetResource(p); ok && res.Amount > 0 {
		return ResourceTile(res.Type, res.Amount)
	}
	return Walkable
}

// Observe records the ground truth for p. Must be called inside a grid section.
func (k *AgentKnowledge) Observe(r world.Reader, p shared.Point) error {
	if !r.InBounds(p) || !k.InBounds(p) {
		return shared.NewOutOfBoundsError(p.X, p.Y)
	}
	return k.Update(p, Classify(r, p))
}

// Clone returns an independent copy
func (k *AgentKnowledge) Clone() *AgentKnowledge {
	tiles := make([]TileInfo, len(k.tiles))
	copy(tiles, k.tiles)
	return &AgentKnowledge{width: k.width, height: k.height, tiles: tiles}
}

// Each calls fn for every tile in row-major order
func (k *AgentKnowledge) Each(fn func(p shared.Point, info TileInfo)) {
	for i, info := range k.tiles {
		fn(shared.Pt(i%k.width, i/k.width), info)
	}
}

// KnownCount returns how many tiles are not Unknown
func (k *AgentKnowledge) KnownCount() int {
	n := 0
	for _, info := range k.tiles {
		if info.IsKnown() {
			n++
		}
	}
	return n
}

// Coverage returns the known share of the map in [0,1]
func (k *AgentKnowledge) Coverage() float64 {
	if len(k.tiles) == 0 {
		return 0
	}
	return float64(k.KnownCount()) / float64(len(k.tiles))
}

// Nearest finds the closest tile to from (Manhattan distance) matching pred.
// Ties resolve to the first match in row-major order.
func (k *AgentKnowledge) Nearest(from shared.Point, pred func(p shared.Point, info TileInfo) bool) (shared.Point, bool) {
	best, bestDist, found := shared.Point{}, 0, false
	k.Each(func(p shared.Point, info TileInfo) {
		if !pred(p, info) {
			return
		}
		if d := p.Manhattan(from); !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	})
	return best, found
}
