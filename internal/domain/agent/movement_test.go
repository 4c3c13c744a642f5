package agent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

func open(shared.Point) bool { return true }

func TestDirectedStep_PrefersLargerAxis(t *testing.T) {
	k := knowledge.New(10, 10)
	rng := rand.New(rand.NewSource(1))

	d, ok := DirectedStep(shared.Pt(0, 0), shared.Pt(5, 2), k, open, rng)
	require.True(t, ok)
	assert.Equal(t, Right, d)

	d, ok = DirectedStep(shared.Pt(0, 0), shared.Pt(1, 6), k, open, rng)
	require.True(t, ok)
	assert.Equal(t, Down, d)
}

func TestDirectedStep_FallsBackToOtherAxis(t *testing.T) {
	k := knowledge.New(10, 10)
	require.NoError(t, k.Update(shared.Pt(1, 0), knowledge.Obstacle))
	rng := rand.New(rand.NewSource(1))

	d, ok := DirectedStep(shared.Pt(0, 0), shared.Pt(5, 2), k, open, rng)

	require.True(t, ok)
	assert.Equal(t, Down, d)
}

func TestDirectedStep_UsesAbsoluteDirectionsWhenBothAxesBlocked(t *testing.T) {
	k := knowledge.New(10, 10)
	require.NoError(t, k.Update(shared.Pt(5, 4), knowledge.Obstacle))
	require.NoError(t, k.Update(shared.Pt(4, 5), knowledge.Obstacle))
	rng := rand.New(rand.NewSource(1))

	d, ok := DirectedStep(shared.Pt(4, 4), shared.Pt(6, 6), k, open, rng)

	require.True(t, ok)
	assert.Equal(t, Up, d)
}

func TestDirectedStep_RespectsGroundTruth(t *testing.T) {
	k := knowledge.New(10, 10)
	rng := rand.New(rand.NewSource(1))
	blocked := func(p shared.Point) bool { return p != shared.Pt(1, 0) }

	d, ok := DirectedStep(shared.Pt(0, 0), shared.Pt(5, 0), k, blocked, rng)

	require.True(t, ok)
	assert.Equal(t, Down, d)
}

func TestDirectedStep_Boxed(t *testing.T) {
	k := knowledge.New(10, 10)
	rng := rand.New(rand.NewSource(1))
	closed := func(shared.Point) bool { return false }

	_, ok := DirectedStep(shared.Pt(0, 0), shared.Pt(5, 5), k, closed, rng)
	assert.False(t, ok)

	_, ok = DirectedStep(shared.Pt(5, 5), shared.Pt(5, 5), k, open, rng)
	assert.False(t, ok, "already at target")
}

func TestExploreStep_Tiers(t *testing.T) {
	k := knowledge.New(10, 10)
	from := shared.Pt(2, 2)
	require.NoError(t, k.Update(shared.Pt(2, 1), knowledge.Walkable))
	require.NoError(t, k.Update(shared.Pt(2, 3), knowledge.ResourceTile(shared.ResourceEnergy, 20)))
	require.NoError(t, k.Update(shared.Pt(1, 2), knowledge.Obstacle))
	visited := make(VisitedSet)
	rng := rand.New(rand.NewSource(7))

	// unvisited deposit beats unvisited walkable; unknown (3,2) is never chosen
	d, ok := ExploreStep(from, k, visited, rng)
	require.True(t, ok)
	assert.Equal(t, Down, d)

	visited.Add(shared.Pt(2, 3))
	d, ok = ExploreStep(from, k, visited, rng)
	require.True(t, ok)
	assert.Equal(t, Up, d)

	visited.Add(shared.Pt(2, 1))
	for i := 0; i < 20; i++ {
		d, ok = ExploreStep(from, k, visited, rng)
		require.True(t, ok)
		assert.Contains(t, []Direction{Up, Down}, d)
	}

	visited.Clear()
	assert.False(t, visited.Has(shared.Pt(2, 1)))
}

func TestExploreStep_NothingKnown(t *testing.T) {
	k := knowledge.New(10, 10)
	_, ok := ExploreStep(shared.Pt(0, 0), k, make(VisitedSet), rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}
