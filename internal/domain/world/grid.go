package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// ErrGridUnavailable is returned once the grid has been closed or poisoned by
// a panic inside an exclusive section. Agents treat it as fatal.
var ErrGridUnavailable = errors.New("world grid unavailable")

// Terrain is the static classification of a cell
type Terrain uint8

const (
	Walkable Terrain = iota
	Obstacle
)

// StationRadius is the half-width of the square station zone
const StationRadius = 1

// Reader is the read-only view of the grid handed to shared sections.
type Reader interface {
	Width() int
	Height() int
	InBounds(p shared.Point) bool
	IsObstacle(p shared.Point) bool
	IsStation(p shared.Point) bool
	HasResource(p shared.Point) bool
	GetResource(p shared.Point) (shared.Resource, bool)
	StationCenter() shared.Point
}

// Grid is the shared terrain and resource store.
//
// Locking contract: any number of View sections may run at once; an Update
// section excludes every other section. Critical sections must only read,
// decide and mutate. Never sleep or publish events while holding one.
type Grid struct {
	mu        sync.RWMutex
	width     int
	height    int
	cells     []Terrain
	resources map[shared.Point]shared.Resource
	station   shared.Point
	closed    bool
	poisoned  bool
}

// NewGrid creates a grid from a row-major terrain slice. A nil slice yields an
// all-walkable grid. The station zone is always forced walkable.
func NewGrid(width, height int, terrain []Terrain) (*Grid, error) {
	if width < 2*StationRadius+1 || height < 2*StationRadius+1 {
		return nil, shared.NewValidationError("grid", fmt.Sprintf("grid %dx%d is smaller than the station zone", width, height))
	}
	if terrain != nil && len(terrain) != width*height {
		return nil, shared.NewValidationError("terrain", fmt.Sprintf("expected %d cells, got %d", width*height, len(terrain)))
	}

	cells := make([]Terrain, width*height)
	copy(cells, terrain)

	g := &Grid{
		width:     width,
		height:    height,
		cells:     cells,
		resources: make(map[shared.Point]shared.Resource),
		station:   StationCenterFor(width, height),
	}
	for _, p := range g.StationZone() {
		g.cells[g.index(p)] = Walkable
	}
	return g, nil
}

// StationCenterFor returns the station center of a width x height grid
func StationCenterFor(width, height int) shared.Point {
	return shared.Pt(width/2, height/2)
}

// StationZoneFor lists the in-bounds tiles of the station zone around center
func StationZoneFor(width, height int) []shared.Point {
	center := StationCenterFor(width, height)
	zone := make([]shared.Point, 0, (2*StationRadius+1)*(2*StationRadius+1))
	for dy := -StationRadius; dy <= StationRadius; dy++ {
		for dx := -StationRadius; dx <= StationRadius; dx++ {
			p := shared.Pt(center.X+dx, center.Y+dy)
			if p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height {
				zone = append(zone, p)
			}
		}
	}
	return zone
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// StationCenter returns the docking tile
func (g *Grid) StationCenter() shared.Point { return g.station }

// StationZone lists the tiles of the station zone
func (g *Grid) StationZone() []shared.Point {
	return StationZoneFor(g.width, g.height)
}

func (g *Grid) index(p shared.Point) int {
	return p.Y*g.width + p.X
}

// View runs fn inside a shared section.
func (g *Grid) View(fn func(Reader) error) (err error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed || g.poisoned {
		return ErrGridUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic in shared section: %v", ErrGridUnavailable, r)
		}
	}()
	return fn(gridView{g})
}

// Update runs fn inside an exclusive section. Decisions that lead to a mutation
// must be made from reads inside the same section. A panic in fn poisons the
// grid for every later caller.
func (g *Grid) Update(fn func(*Tx) error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.poisoned {
		return ErrGridUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			err = fmt.Errorf("%w: panic in exclusive section: %v", ErrGridUnavailable, r)
		}
	}()
	return fn(&Tx{gridView{g}})
}

// Close makes every later section fail with ErrGridUnavailable
func (g *Grid) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

// Available reports whether sections can still be entered
func (g *Grid) Available() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return !g.closed && !g.poisoned
}

// IsObstacle reports whether p blocks movement. Out-of-bounds coordinates and
// an unavailable grid both read as obstacles.
func (g *Grid) IsObstacle(p shared.Point) bool {
	blocked := true
	_ = g.View(func(r Reader) error {
		blocked = r.IsObstacle(p)
		return nil
	})
	return blocked
}

// IsStation reports whether p lies in the station zone
func (g *Grid) IsStation(p shared.Point) bool {
	return gridView{g}.IsStation(p)
}

// InBounds reports whether p lies on the grid
func (g *Grid) InBounds(p shared.Point) bool {
	return gridView{g}.InBounds(p)
}

// HasResource reports whether a deposit sits on p
func (g *Grid) HasResource(p shared.Point) bool {
	found := false
	_ = g.View(func(r Reader) error {
		found = r.HasResource(p)
		return nil
	})
	return found
}

// GetResource reads the deposit on p without removing it
func (g *Grid) GetResource(p shared.Point) (res shared.Resource, ok bool) {
	_ = g.View(func(r Reader) error {
		res, ok = r.GetResource(p)
		return nil
	})
	return res, ok
}

// RemoveResource takes the deposit on p. Consumable deposits are deleted;
// SciencePoints deposits are returned but left in place.
func (g *Grid) RemoveResource(p shared.Point) (res shared.Resource, ok bool) {
	_ = g.Update(func(tx *Tx) error {
		res, ok = tx.RemoveResource(p)
		return nil
	})
	return res, ok
}

// AddResource places a deposit on p, replacing any existing one
func (g *Grid) AddResource(p shared.Point, t shared.ResourceType, amount uint) error {
	return g.Update(func(tx *Tx) error {
		return tx.AddResource(p, t, amount)
	})
}

// Resources returns a copy of every deposit on the grid
func (g *Grid) Resources() map[shared.Point]shared.Resource {
	out := make(map[shared.Point]shared.Resource)
	_ = g.View(func(Reader) error {
		for p, res := range g.resources {
			out[p] = res
		}
		return nil
	})
	return out
}

// WalkableTiles lists every walkable tile in row-major order
func (g *Grid) WalkableTiles() []shared.Point {
	var tiles []shared.Point
	_ = g.View(func(r Reader) error {
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				if p := shared.Pt(x, y); !r.IsObstacle(p) {
					tiles = append(tiles, p)
				}
			}
		}
		return nil
	})
	return tiles
}

// gridView reads grid state without locking; only handed out inside sections.
type gridView struct {
	g *Grid
}

func (v gridView) Width() int                  { return v.g.width }
func (v gridView) Height() int                 { return v.g.height }
func (v gridView) StationCenter() shared.Point { return v.g.station }

func (v gridView) InBounds(p shared.Point) bool {
	return p.X >= 0 && p.X < v.g.width && p.Y >= 0 && p.Y < v.g.height
}

func (v gridView) IsObstacle(p shared.Point) bool {
	if !v.InBounds(p) {
		return true
	}
	return v.g.cells[v.g.index(p)] == Obstacle
}

func (v gridView) IsStation(p shared.Point) bool {
	d := p.Sub(v.g.station)
	return v.InBounds(p) &&
		d.X >= -StationRadius && d.X <= StationRadius &&
		d.Y >= -StationRadius && d.Y <= StationRadius
}

func (v gridView) HasResource(p shared.Point) bool {
	_, ok := v.g.resources[p]
	return ok
}

func (v gridView) GetResource(p shared.Point) (shared.Resource, bool) {
	res, ok := v.g.resources[p]
	return res, ok
}

// Tx is the mutable view handed to exclusive sections
type Tx struct {
	gridView
}

// RemoveResource takes the deposit on p, see Grid.RemoveResource
func (tx *Tx) RemoveResource(p shared.Point) (shared.Resource, bool) {
	res, ok := tx.g.resources[p]
	if !ok {
		return shared.Resource{}, false
	}
	if res.Type.IsConsumable() {
		delete(tx.g.resources, p)
	}
	return res, true
}

// AddResource places a deposit on p, replacing any existing one
func (tx *Tx) AddResource(p shared.Point, t shared.ResourceType, amount uint) error {
	if !tx.InBounds(p) {
		return shared.NewOutOfBoundsError(p.X, p.Y)
	}
	if amount == 0 {
		return shared.NewValidationError("amount", "resource amount must be positive")
	}
	if tx.IsStation(p) {
		return shared.NewValidationError("position", fmt.Sprintf("%s is inside the station zone", p))
	}
	if tx.IsObstacle(p) {
		return shared.NewValidationError("position", fmt.Sprintf("%s is an obstacle", p))
	}
	tx.g.resources[p] = shared.Resource{Type: t, Amount: amount}
	return nil
}

// ReachableTiles lists the walkable tiles connected to the station center in
// breadth-first order, nearest first.
func (g *Grid) ReachableTiles() []shared.Point {
	var tiles []shared.Point
	_ = g.View(func(Reader) error {
		tiles = floodFill(g.cells, make([]bool, len(g.cells)), g.width, g.height, g.station)
		return nil
	})
	return tiles
}
