package world

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

func newOpenGrid(t *testing.T, width, height int) *Grid {
	t.Helper()
	g, err := NewGrid(width, height, nil)
	require.NoError(t, err)
	return g
}

func TestGrid_OutOfBoundsIsObstacle(t *testing.T) {
	g := newOpenGrid(t, 10, 10)

	for _, p := range []shared.Point{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 100, Y: 100}} {
		assert.True(t, g.IsObstacle(p), "expected %s to be an obstacle", p)
	}
	assert.False(t, g.IsObstacle(shared.Pt(0, 0)))
}

func TestGrid_StationZoneForcedWalkable(t *testing.T) {
	// Arrange
	terrain := make([]Terrain, 25)
	for i := range terrain {
		terrain[i] = Obstacle
	}

	// Act
	g, err := NewGrid(5, 5, terrain)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, shared.Pt(2, 2), g.StationCenter())
	assert.Len(t, g.StationZone(), 9)
	for _, p := range g.StationZone() {
		assert.False(t, g.IsObstacle(p))
		assert.True(t, g.IsStation(p))
	}
	assert.True(t, g.IsObstacle(shared.Pt(0, 0)))
	assert.False(t, g.IsStation(shared.Pt(0, 0)))
}

func TestGrid_RejectsTinyGrid(t *testing.T) {
	_, err := NewGrid(2, 5, nil)
	var verr *shared.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGrid_AddResourceRules(t *testing.T) {
	terrain := make([]Terrain, 49)
	terrain[0] = Obstacle
	g, err := NewGrid(7, 7, terrain)
	require.NoError(t, err)

	assert.NoError(t, g.AddResource(shared.Pt(6, 6), shared.ResourceMinerals, 40))
	assert.Error(t, g.AddResource(shared.Pt(0, 0), shared.ResourceMinerals, 40), "obstacle")
	assert.Error(t, g.AddResource(g.StationCenter(), shared.ResourceMinerals, 40), "station")
	assert.Error(t, g.AddResource(shared.Pt(6, 5), shared.ResourceMinerals, 0), "zero amount")

	var oob *shared.OutOfBoundsError
	assert.ErrorAs(t, g.AddResource(shared.Pt(7, 0), shared.ResourceEnergy, 5), &oob)

	res, ok := g.GetResource(shared.Pt(6, 6))
	require.True(t, ok)
	assert.Equal(t, shared.Resource{Type: shared.ResourceMinerals, Amount: 40}, res)
	assert.True(t, g.HasResource(shared.Pt(6, 6)))
	assert.False(t, g.HasResource(shared.Pt(5, 5)))
}

func TestGrid_RemoveResourceConsumable(t *testing.T) {
	g := newOpenGrid(t, 10, 10)
	require.NoError(t, g.AddResource(shared.Pt(1, 1), shared.ResourceEnergy, 30))

	res, ok := g.RemoveResource(shared.Pt(1, 1))
	require.True(t, ok)
	assert.Equal(t, uint(30), res.Amount)
	assert.False(t, g.HasResource(shared.Pt(1, 1)))

	_, ok = g.RemoveResource(shared.Pt(1, 1))
	assert.False(t, ok)
}

func TestGrid_RemoveResourceSciencePersists(t *testing.T) {
	g := newOpenGrid(t, 10, 10)
	require.NoError(t, g.AddResource(shared.Pt(1, 1), shared.ResourceSciencePoints, 25))

	for i := 0; i < 3; i++ {
		res, ok := g.RemoveResource(shared.Pt(1, 1))
		require.True(t, ok)
		assert.Equal(t, shared.ResourceSciencePoints, res.Type)
		assert.Equal(t, uint(25), res.Amount)
	}
	assert.True(t, g.HasResource(shared.Pt(1, 1)))
}

func TestGrid_ConcurrentRemoveYieldsExactlyOneWinner(t *testing.T) {
	for round := 0; round < 50; round++ {
		g := newOpenGrid(t, 10, 10)
		p := shared.Pt(3, 3)
		require.NoError(t, g.AddResource(p, shared.ResourceMinerals, 30))

		const callers = 8
		var wg sync.WaitGroup
		results := make([]bool, callers)
		start := make(chan struct{})
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, results[i] = g.RemoveResource(p)
			}(i)
		}
		close(start)
		wg.Wait()

		wins := 0
		for _, ok := range results {
			if ok {
				wins++
			}
		}
		require.Equal(t, 1, wins, "round %d", round)
	}
}

func TestGrid_PanicPoisonsGrid(t *testing.T) {
	g := newOpenGrid(t, 10, 10)

	err := g.Update(func(*Tx) error {
		panic("boom")
	})
	require.ErrorIs(t, err, ErrGridUnavailable)
	assert.False(t, g.Available())

	err = g.View(func(Reader) error { return nil })
	assert.ErrorIs(t, err, ErrGridUnavailable)
	assert.True(t, g.IsObstacle(shared.Pt(1, 1)), "unavailable grid reads as blocked")
}

func TestGrid_PanicInViewDoesNotPoison(t *testing.T) {
	g := newOpenGrid(t, 10, 10)

	err := g.View(func(Reader) error { panic("read failure") })
	require.ErrorIs(t, err, ErrGridUnavailable)
	assert.True(t, g.Available())
}

func TestGrid_CloseMakesSectionsFail(t *testing.T) {
	g := newOpenGrid(t, 10, 10)
	g.Close()

	err := g.Update(func(*Tx) error { return nil })
	assert.True(t, errors.Is(err, ErrGridUnavailable))
	assert.Error(t, g.AddResource(shared.Pt(0, 0), shared.ResourceEnergy, 1))
}

func TestGrid_ReachableTilesStartAtStation(t *testing.T) {
	g := newOpenGrid(t, 9, 9)

	tiles := g.ReachableTiles()
	require.Len(t, tiles, 81)
	assert.Equal(t, g.StationCenter(), tiles[0])
	for i := 1; i < len(tiles); i++ {
		assert.LessOrEqual(t,
			tiles[i-1].Manhattan(g.StationCenter()),
			tiles[i].Manhattan(g.StationCenter()))
	}
}
