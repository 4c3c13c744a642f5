package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/adapters/render"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/test/helpers"
)

func testRows() []string {
	return []string{
		"#E.....",
		"......M",
		".......",
		".......",
		"S.....#",
	}
}

func TestFrame_DrawsTerrainStationAndAgents(t *testing.T) {
	g := helpers.NewGridFromRows(t, 10, testRows()...)
	r := render.NewRenderer(&bytes.Buffer{}, false)

	agents := []agent.Snapshot{
		{ID: 1, Role: agent.RoleExplorer, Position: shared.Pt(0, 2), Status: agent.StatusActive},
		{ID: 2, Role: agent.RoleCollector, Position: shared.Pt(5, 3), Status: agent.StatusReturning},
		{ID: 3, Role: agent.RoleScientist, Position: shared.Pt(1, 1), Status: agent.StatusShutdown},
	}

	frame := r.Frame(g, agents, nil)

	assert.Equal(t, strings.Join([]string{
		"#E.....",
		"..@@@.M",
		"x.@@@..",
		"..@@@c.",
		"S.....#",
	}, "\n")+"\n", frame)
}

func TestFrame_FogHidesUnknownTiles(t *testing.T) {
	g := helpers.NewGridFromRows(t, 10, testRows()...)
	r := render.NewRenderer(&bytes.Buffer{}, false)

	fog := knowledge.New(g.Width(), g.Height())
	require.NoError(t, fog.Update(shared.Pt(0, 0), knowledge.Obstacle))
	require.NoError(t, fog.Update(shared.Pt(1, 0), knowledge.ResourceTile(shared.ResourceEnergy, 10)))
	require.NoError(t, fog.Update(shared.Pt(2, 0), knowledge.Walkable))

	frame := r.Frame(g, nil, fog)
	lines := strings.Split(strings.TrimSuffix(frame, "\n"), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "#E.    ", lines[0])
	assert.Equal(t, "       ", lines[4])
}

func TestSummary_OrdersByIDAndReportsCoverage(t *testing.T) {
	agents := []agent.Snapshot{
		{ID: 2, Role: agent.RoleCollector, Position: shared.Pt(4, 1), Energy: 10, MaxEnergy: 500,
			Carried: map[shared.ResourceType]uint{shared.ResourceMinerals: 30}, Capacity: 700, Status: agent.StatusReturning},
		{ID: 1, Role: agent.RoleExplorer, Position: shared.Pt(0, 0), Energy: 800, MaxEnergy: 800, Capacity: 700},
	}

	lines := render.Summary(agents, 0.25)

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "agent-1 [x]"))
	assert.Contains(t, lines[1], "energy 10/500 cargo 30/700")
	assert.Contains(t, lines[1], agent.StatusReturning.String())
	assert.Equal(t, "station knowledge 25.0%", lines[2])
}

func TestRender_WritesClearScreenFrameAndSummary(t *testing.T) {
	g := helpers.NewOpenGrid(t, 5, 5)
	var out bytes.Buffer
	r := render.NewRenderer(&out, false)

	require.NoError(t, r.Render(g, nil, nil, 0))

	assert.True(t, strings.HasPrefix(out.String(), "\033[H\033[2J"))
	assert.Contains(t, out.String(), ".@@@.\n")
	assert.Contains(t, out.String(), "station knowledge 0.0%")
}

func TestResourceGlyph(t *testing.T) {
	assert.Equal(t, 'E', render.ResourceGlyph(shared.ResourceEnergy))
	assert.Equal(t, 'M', render.ResourceGlyph(shared.ResourceMinerals))
	assert.Equal(t, 'S', render.ResourceGlyph(shared.ResourceSciencePoints))
}
