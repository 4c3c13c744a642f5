package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

func TestNew_UnknownExceptStationZone(t *testing.T) {
	k := New(10, 10)

	stations := 0
	k.Each(func(p shared.Point, info TileInfo) {
		if info.Kind == KindStation {
			stations++
			d := p.Sub(shared.Pt(5, 5))
			assert.LessOrEqual(t, d.X*d.X, 1)
			assert.LessOrEqual(t, d.Y*d.Y, 1)
			return
		}
		assert.Equal(t, Unknown, info, "tile %s", p)
	})
	assert.Equal(t, 9, stations)
	assert.Equal(t, shared.Pt(5, 5), k.StationCenter())
}

func TestUpdate_OutOfBounds(t *testing.T) {
	k := New(3, 3)

	err := k.Update(shared.Pt(10, 10), Obstacle)

	var oob *shared.OutOfBoundsError
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, Unknown, k.Tile(shared.Pt(10, 10)))
}

func TestObserve_Precedence(t *testing.T) {
	// Arrange
	terrain := make([]world.Terrain, 49)
	terrain[0] = world.Obstacle
	g, err := world.NewGrid(7, 7, terrain)
	require.NoError(t, err)
	require.NoError(t, g.AddResource(shared.Pt(6, 6), shared.ResourceEnergy, 12))

	k := New(7, 7)

	// Act
	err = g.View(func(r world.Reader) error {
		for _, p := range []shared.Point{{X: 0, Y: 0}, {X: 6, Y: 6}, {X: 3, Y: 3}, {X: 1, Y: 0}} {
			if err := k.Observe(r, p); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, Obstacle, k.Tile(shared.Pt(0, 0)))
	assert.Equal(t, ResourceTile(shared.ResourceEnergy, 12), k.Tile(shared.Pt(6, 6)))
	assert.Equal(t, Station, k.Tile(shared.Pt(3, 3)))
	assert.Equal(t, Walkable, k.Tile(shared.Pt(1, 0)))
}

func TestObserve_OutOfBoundsIsRejected(t *testing.T) {
	g, err := world.NewGrid(5, 5, nil)
	require.NoError(t, err)
	k := New(5, 5)

	err = g.View(func(r world.Reader) error {
		return k.Observe(r, shared.Pt(-1, 2))
	})

	var oob *shared.OutOfBoundsError
	assert.ErrorAs(t, err, &oob)
}

func TestClone_IsIndependent(t *testing.T) {
	k := New(5, 5)
	c := k.Clone()

	require.NoError(t, c.Update(shared.Pt(0, 0), Obstacle))

	assert.Equal(t, Unknown, k.Tile(shared.Pt(0, 0)))
	assert.Equal(t, Obstacle, c.Tile(shared.Pt(0, 0)))
}

func TestNearest(t *testing.T) {
	k := New(10, 10)
	require.NoError(t, k.Update(shared.Pt(0, 0), ResourceTile(shared.ResourceMinerals, 10)))
	require.NoError(t, k.Update(shared.Pt(8, 1), ResourceTile(shared.ResourceMinerals, 10)))
	require.NoError(t, k.Update(shared.Pt(7, 1), ResourceTile(shared.ResourceEnergy, 10)))

	p, ok := k.Nearest(shared.Pt(9, 0), func(_ shared.Point, info TileInfo) bool {
		return info.Holds(shared.ResourceMinerals)
	})
	require.True(t, ok)
	assert.Equal(t, shared.Pt(8, 1), p)

	_, ok = k.Nearest(shared.Pt(9, 0), func(_ shared.Point, info TileInfo) bool {
		return info.Holds(shared.ResourceSciencePoints)
	})
	assert.False(t, ok)
}

func TestCoverage(t *testing.T) {
	k := New(3, 3)
	assert.Equal(t, 1.0, k.Coverage())

	k = New(6, 6)
	assert.Equal(t, 9, k.KnownCount())
	assert.InDelta(t, 0.25, k.Coverage(), 1e-9)
}
