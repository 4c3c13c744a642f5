package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

const clearScreen = "\033[H\033[2J"

// Glyphs used in frames
const (
	GlyphObstacle = '#'
	GlyphWalkable = '.'
	GlyphStation  = '@'
	GlyphUnknown  = ' '
)

// Renderer draws ASCII frames of the grid. Colors are per instance so two
// renderers with different settings can coexist.
type Renderer struct {
	out     io.Writer
	palette palette
}

type palette struct {
	obstacle, walkable, station, agent, unknown *color.Color
	resources                                   map[shared.ResourceType]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		obstacle: color.New(color.FgHiBlack),
		walkable: color.New(color.FgWhite, color.Faint),
		station:  color.New(color.FgHiCyan, color.Bold),
		agent:    color.New(color.FgHiWhite, color.Bold),
		unknown:  color.New(color.FgBlack),
		resources: map[shared.ResourceType]*color.Color{
			shared.ResourceEnergy:        color.New(color.FgYellow),
			shared.ResourceMinerals:      color.New(color.FgGreen),
			shared.ResourceSciencePoints: color.New(color.FgMagenta),
		},
	}
	all := []*color.Color{p.obstacle, p.walkable, p.station, p.agent, p.unknown}
	for _, c := range p.resources {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, useColor bool) *Renderer {
	return &Renderer{out: out, palette: newPalette(useColor)}
}

// ResourceGlyph returns the map letter for a resource type
func ResourceGlyph(t shared.ResourceType) rune {
	switch t {
	case shared.ResourceEnergy:
		return 'E'
	case shared.ResourceMinerals:
		return 'M'
	case shared.ResourceSciencePoints:
		return 'S'
	default:
		return '?'
	}
}

// Frame renders the grid one row per line. Agents draw over terrain. When fog
// is non-nil, tiles it does not know are left blank and known tiles are drawn
// from fog rather than from the live grid.
func (r *Renderer) Frame(g *world.Grid, agents []agent.Snapshot, fog *knowledge.AgentKnowledge) string {
	occupied := make(map[shared.Point]agent.Role, len(agents))
	for _, a := range agents {
		if a.Status == agent.StatusShutdown {
			continue
		}
		occupied[a.Position] = a.Role
	}

	var b strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := shared.Pt(x, y)
			if role, ok := occupied[p]; ok {
				b.WriteString(r.palette.agent.Sprint(string(role.Symbol())))
				continue
			}
			if fog != nil {
				b.WriteString(r.knownGlyph(fog.Tile(p)))
				continue
			}
			b.WriteString(r.gridGlyph(g, p))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) gridGlyph(g *world.Grid, p shared.Point) string {
	switch {
	case g.IsObstacle(p):
		return r.palette.obstacle.Sprint(string(GlyphObstacle))
	case g.IsStation(p):
		return r.palette.station.Sprint(string(GlyphStation))
	}
	if res, ok := g.GetResource(p); ok {
		return r.resourceGlyph(res.Type)
	}
	return r.palette.walkable.Sprint(string(GlyphWalkable))
}

func (r *Renderer) knownGlyph(info knowledge.TileInfo) string {
	switch info.Kind {
	case knowledge.KindObstacle:
		return r.palette.obstacle.Sprint(string(GlyphObstacle))
	case knowledge.KindStation:
		return r.palette.station.Sprint(string(GlyphStation))
	case knowledge.KindResource:
		return r.resourceGlyph(info.Resource.Type)
	case knowledge.KindWalkable:
		return r.palette.walkable.Sprint(string(GlyphWalkable))
	default:
		return string(GlyphUnknown)
	}
}

func (r *Renderer) resourceGlyph(t shared.ResourceType) string {
	c, ok := r.palette.resources[t]
	if !ok {
		return string(ResourceGlyph(t))
	}
	return c.Sprint(string(ResourceGlyph(t)))
}

// Summary lists one status line per agent ordered by id, then the station
// coverage line
func Summary(agents []agent.Snapshot, coverage float64) []string {
	sorted := make([]agent.Snapshot, len(agents))
	copy(sorted, agents)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	lines := make([]string, 0, len(sorted)+1)
	for _, a := range sorted {
		lines = append(lines, fmt.Sprintf("%s [%c] %-20s (%d,%d) energy %d/%d cargo %d/%d",
			a.ID, a.Role.Symbol(), a.Status.Label(a.Role),
			a.Position.X, a.Position.Y,
			a.Energy, a.MaxEnergy,
			a.CarriedTotal(), a.Capacity))
	}
	lines = append(lines, fmt.Sprintf("station knowledge %.1f%%", coverage*100))
	return lines
}

// Render clears the terminal and writes a frame followed by the summary
func (r *Renderer) Render(g *world.Grid, agents []agent.Snapshot, fog *knowledge.AgentKnowledge, coverage float64) error {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(r.Frame(g, agents, fog))
	for _, line := range Summary(agents, coverage) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
