package station

import (
	"sync"
	"time"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// VersionedTile is the station's authoritative entry for one tile
type VersionedTile struct {
	Info      knowledge.TileInfo
	Timestamp time.Time
	Agent     agent.ID
}

// MergeResult counts what happened to each reported tile
type MergeResult struct {
	Applied     int
	Rejected    int
	Skipped     int
	OutOfBounds []shared.Point
}

// GlobalKnowledge is the fused, versioned view of the grid.
//
// Conflict resolution is last-write-wins by timestamp:
//   - Station entries are immutable
//   - a Station report replaces any other entry
//   - an Unknown entry accepts any concrete report
//   - between concrete reports the strictly newer timestamp wins; ties keep
//     the existing entry
//
// Unknown reports carry no information and are skipped.
type GlobalKnowledge struct {
	mu     sync.RWMutex
	width  int
	height int
	tiles  []VersionedTile
}

// NewGlobalKnowledge creates a view with only the station zone known
func NewGlobalKnowledge(width, height int) *GlobalKnowledge {
	g := &GlobalKnowledge{
		width:  width,
		height: height,
		tiles:  make([]VersionedTile, width*height),
	}
	for _, p := range world.StationZoneFor(width, height) {
		g.tiles[g.index(p)] = VersionedTile{Info: knowledge.Station}
	}
	return g
}

func (g *GlobalKnowledge) index(p shared.Point) int {
	return p.Y*g.width + p.X
}

func (g *GlobalKnowledge) inBounds(p shared.Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Tile returns the entry for p; out-of-bounds tiles read as Unknown
func (g *GlobalKnowledge) Tile(p shared.Point) VersionedTile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.inBounds(p) {
		return VersionedTile{Info: knowledge.Unknown}
	}
	return g.tiles[g.index(p)]
}

// Merge folds every tile of report into the view, stamping accepted entries
// with ts and agentID.
func (g *GlobalKnowledge) Merge(agentID agent.ID, report *knowledge.AgentKnowledge, ts time.Time) MergeResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	var result MergeResult
	report.Each(func(p shared.Point, info knowledge.TileInfo) {
		g.mergeTile(&result, agentID, p, info, ts)
	})
	return result
}

// MergeTile folds a single report into the view
func (g *GlobalKnowledge) MergeTile(agentID agent.ID, p shared.Point, info knowledge.TileInfo, ts time.Time) MergeResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	var result MergeResult
	g.mergeTile(&result, agentID, p, info, ts)
	return result
}

func (g *GlobalKnowledge) mergeTile(result *MergeResult, agentID agent.ID, p shared.Point, info knowledge.TileInfo, ts time.Time) {
	if !g.inBounds(p) {
		result.OutOfBounds = append(result.OutOfBounds, p)
		return
	}
	if !info.IsKnown() {
		result.Skipped++
		return
	}

	i := g.index(p)
	if !shouldReplace(g.tiles[i], info, ts) {
		result.Rejected++
		return
	}
	g.tiles[i] = VersionedTile{Info: info, Timestamp: ts, Agent: agentID}
	result.Applied++
}

func shouldReplace(existing VersionedTile, incoming knowledge.TileInfo, ts time.Time) bool {
	switch {
	case existing.Info.Kind == knowledge.KindStation:
		return false
	case incoming.Kind == knowledge.KindStation, existing.Info.Kind == knowledge.KindUnknown:
		return true
	default:
		return ts.After(existing.Timestamp)
	}
}

// Snapshot serializes the fused view into agent knowledge
func (g *GlobalKnowledge) Snapshot() *knowledge.AgentKnowledge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	k := knowledge.New(g.width, g.height)
	for i, tile := range g.tiles {
		_ = k.Update(shared.Pt(i%g.width, i/g.width), tile.Info)
	}
	return k
}

// Coverage returns the known share of the view in [0,1]
func (g *GlobalKnowledge) Coverage() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.tiles) == 0 {
		return 0
	}
	known := 0
	for _, tile := range g.tiles {
		if tile.Info.IsKnown() {
			known++
		}
	}
	return float64(known) / float64(len(g.tiles))
}
