package station

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func report(t *testing.T, w, h int, tiles map[shared.Point]knowledge.TileInfo) *knowledge.AgentKnowledge {
	t.Helper()
	k := knowledge.New(w, h)
	for p, info := range tiles {
		require.NoError(t, k.Update(p, info))
	}
	return k
}

func TestMerge_NewerReportWins(t *testing.T) {
	// Arrange
	g := NewGlobalKnowledge(10, 10)
	p := shared.Pt(2, 2)

	// Act
	g.Merge(1, report(t, 10, 10, map[shared.Point]knowledge.TileInfo{p: knowledge.Obstacle}), t0)
	g.Merge(2, report(t, 10, 10, map[shared.Point]knowledge.TileInfo{p: knowledge.Walkable}), t0.Add(time.Second))

	// Assert
	assert.Equal(t, knowledge.Walkable, g.Snapshot().Tile(p))
	assert.Equal(t, VersionedTile{Info: knowledge.Walkable, Timestamp: t0.Add(time.Second), Agent: 2}, g.Tile(p))
}

func TestMerge_OlderOrEqualTimestampNeverOverwrites(t *testing.T) {
	g := NewGlobalKnowledge(10, 10)
	p := shared.Pt(2, 2)
	g.MergeTile(1, p, knowledge.Obstacle, t0)

	tie := g.MergeTile(2, p, knowledge.Walkable, t0)
	older := g.MergeTile(3, p, knowledge.Walkable, t0.Add(-time.Minute))

	assert.Equal(t, 1, tie.Rejected)
	assert.Equal(t, 1, older.Rejected)
	assert.Equal(t, VersionedTile{Info: knowledge.Obstacle, Timestamp: t0, Agent: 1}, g.Tile(p))
}

func TestMerge_StationIsImmutable(t *testing.T) {
	g := NewGlobalKnowledge(10, 10)
	center := shared.Pt(5, 5)

	res := g.MergeTile(1, center, knowledge.Obstacle, t0.Add(time.Hour))

	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, knowledge.Station, g.Tile(center).Info)
}

func TestMerge_StationReportReplacesAnyOtherEntry(t *testing.T) {
	g := NewGlobalKnowledge(10, 10)
	g.MergeTile(1, shared.Pt(1, 0), knowledge.Obstacle, t0.Add(time.Hour))

	unknown := g.MergeTile(2, shared.Pt(0, 0), knowledge.Station, t0)
	older := g.MergeTile(2, shared.Pt(1, 0), knowledge.Station, t0)

	assert.Equal(t, 1, unknown.Applied)
	assert.Equal(t, 1, older.Applied, "a Station report ignores timestamps")
	assert.Equal(t, VersionedTile{Info: knowledge.Station, Timestamp: t0, Agent: 2}, g.Tile(shared.Pt(0, 0)))
	assert.Equal(t, knowledge.Station, g.Tile(shared.Pt(1, 0)).Info)
}

func TestMerge_UnknownAcceptsAnyConcreteReport(t *testing.T) {
	g := NewGlobalKnowledge(10, 10)
	deposit := knowledge.ResourceTile(shared.ResourceMinerals, 12)

	// zero timestamp still wins against Unknown
	res := g.MergeTile(4, shared.Pt(1, 1), deposit, time.Time{})

	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, deposit, g.Tile(shared.Pt(1, 1)).Info)
}

func TestMerge_UnknownReportsSkipped(t *testing.T) {
	g := NewGlobalKnowledge(10, 10)
	g.MergeTile(1, shared.Pt(1, 1), knowledge.Walkable, t0)

	res := g.Merge(2, knowledge.New(10, 10), t0.Add(time.Second))

	assert.Equal(t, 0, res.Applied)
	assert.Equal(t, 91, res.Skipped)
	assert.Equal(t, 9, res.Rejected, "station tiles")
	assert.Equal(t, knowledge.Walkable, g.Tile(shared.Pt(1, 1)).Info)
}

func TestMerge_OutOfBoundsReported(t *testing.T) {
	g := NewGlobalKnowledge(5, 5)
	bigger := report(t, 6, 5, map[shared.Point]knowledge.TileInfo{shared.Pt(5, 0): knowledge.Walkable})

	res := g.Merge(1, bigger, t0)

	assert.Contains(t, res.OutOfBounds, shared.Pt(5, 0))
	assert.Len(t, res.OutOfBounds, 5)
}

func TestSnapshot_IsDetached(t *testing.T) {
	g := NewGlobalKnowledge(6, 6)
	snap := g.Snapshot()

	require.NoError(t, snap.Update(shared.Pt(0, 0), knowledge.Obstacle))

	assert.Equal(t, knowledge.Unknown, g.Tile(shared.Pt(0, 0)).Info)
	assert.InDelta(t, 0.25, g.Coverage(), 1e-9)
}
