package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/adapters/persistence"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
	"github.com/andrescamacho/swarm-go/test/helpers"
)

func TestSimulationRunRepository_SaveAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRunRepository(db)
	clock := shared.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	lc := simulation.NewLifecycle(clock)
	require.NoError(t, lc.Start())
	clock.Advance(time.Minute)
	require.NoError(t, lc.Complete())

	stats := simulation.NewStats()
	stats.Ticks = 600
	stats.Record(agent.CollectionData{Agent: 2, Resource: shared.Resource{Type: shared.ResourceEnergy, Amount: 30}})
	stats.Record(agent.Shutdown{Agent: 2, Reason: "cancelled"})
	stats.RecordMerge(42)

	run := simulation.NewRunRecord("run-1", lc, *stats)
	run.Width, run.Height, run.Agents = 90, 15, 5

	// Act
	require.NoError(t, repo.Save(context.Background(), run))
	found, err := repo.FindByID(context.Background(), "run-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, simulation.RunStatusCompleted, found.Status)
	assert.Equal(t, 90, found.Width)
	assert.Equal(t, 600, found.Stats.Ticks)
	assert.Equal(t, 42, found.Stats.TilesMerged)
	assert.Equal(t, uint(30), found.Stats.Collected[shared.ResourceEnergy])
	assert.Equal(t, 1, found.Stats.ShutdownReasons["cancelled"])
	assert.Equal(t, 1, found.Stats.Events[agent.KindCollectionData])
	require.NotNil(t, found.EndedAt)
	assert.Equal(t, time.Minute, found.EndedAt.Sub(*found.StartedAt))
}

func TestSimulationRunRepository_SaveUpdatesExisting(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRunRepository(db)
	lc := simulation.NewLifecycle(nil)
	run := simulation.NewRunRecord("run-2", lc, *simulation.NewStats())
	require.NoError(t, repo.Save(context.Background(), run))

	require.NoError(t, lc.Start())
	require.NoError(t, lc.Stop())
	run = simulation.NewRunRecord("run-2", lc, *simulation.NewStats())
	require.NoError(t, repo.Save(context.Background(), run))

	found, err := repo.FindByID(context.Background(), "run-2")
	require.NoError(t, err)
	assert.Equal(t, simulation.RunStatusStopped, found.Status)

	runs, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSimulationRunRepository_FindMissing(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRunRepository(db)

	_, err := repo.FindByID(context.Background(), "nope")

	assert.ErrorIs(t, err, simulation.ErrRunNotFound)
}
