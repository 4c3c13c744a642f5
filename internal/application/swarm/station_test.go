package swarm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/swarm-go/internal/application/swarm/coordination"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/station"
)

func reportWith(t *testing.T, p shared.Point, info knowledge.TileInfo) *knowledge.AgentKnowledge {
	t.Helper()
	k := knowledge.New(10, 10)
	require.NoError(t, k.Update(p, info))
	return k
}

func TestStation_NewerReportWins(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	docking := coordination.NewChannelDockingCoordinator([]agent.ID{1, 2})
	st := NewStation(station.NewGlobalKnowledge(10, 10), docking, clock)
	ctx := context.Background()
	p := shared.Pt(2, 2)

	_, err := st.HandleArrival(ctx, agent.ArrivedAtStation{Agent: 1, Seq: 1, Knowledge: reportWith(t, p, knowledge.Obstacle)})
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = st.HandleArrival(ctx, agent.ArrivedAtStation{Agent: 2, Seq: 1, Knowledge: reportWith(t, p, knowledge.Walkable)})
	require.NoError(t, err)

	reply, err := docking.AwaitMerge(ctx, 2, 1, time.Second)
	require.NoError(t, err)
	assert.Equal(t, knowledge.Walkable, reply.Knowledge.Tile(p))
	assert.Equal(t, agent.ID(2), st.Knowledge().Tile(p).Agent)
}

func TestStation_SameTimestampKeepsFirstReport(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	docking := coordination.NewChannelDockingCoordinator([]agent.ID{1, 2})
	st := NewStation(station.NewGlobalKnowledge(10, 10), docking, clock)
	ctx := context.Background()
	p := shared.Pt(2, 2)

	_, err := st.HandleArrival(ctx, agent.ArrivedAtStation{Agent: 1, Seq: 1, Knowledge: reportWith(t, p, knowledge.Obstacle)})
	require.NoError(t, err)
	result, err := st.HandleArrival(ctx, agent.ArrivedAtStation{Agent: 2, Seq: 1, Knowledge: reportWith(t, p, knowledge.Walkable)})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, knowledge.Obstacle, st.Knowledge().Tile(p).Info)
}

func TestStation_ReplyCarriesSeqAndSnapshot(t *testing.T) {
	docking := coordination.NewChannelDockingCoordinator([]agent.ID{4})
	st := NewStation(station.NewGlobalKnowledge(10, 10), docking, nil)
	report := reportWith(t, shared.Pt(0, 0), knowledge.ResourceTile(shared.ResourceEnergy, 30))

	result, err := st.HandleArrival(context.Background(), agent.ArrivedAtStation{Agent: 4, Seq: 9, Knowledge: report})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)

	reply, err := docking.AwaitMerge(context.Background(), 4, 9, time.Second)
	require.NoError(t, err)
	assert.Equal(t, knowledge.ResourceTile(shared.ResourceEnergy, 30), reply.Knowledge.Tile(shared.Pt(0, 0)))
	assert.Equal(t, knowledge.Station, reply.Knowledge.Tile(shared.Pt(5, 5)))
	assert.NotSame(t, report, reply.Knowledge)
}

func TestStation_ReplyToDepartedAgentIsDropped(t *testing.T) {
	docking := coordination.NewChannelDockingCoordinator(nil)
	st := NewStation(station.NewGlobalKnowledge(10, 10), docking, nil)

	result, err := st.HandleArrival(context.Background(), agent.ArrivedAtStation{Agent: 3, Seq: 1, Knowledge: reportWith(t, shared.Pt(1, 1), knowledge.Walkable)})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
}

func TestStation_OutOfBoundsTilesAreDropped(t *testing.T) {
	docking := coordination.NewChannelDockingCoordinator([]agent.ID{1})
	st := NewStation(station.NewGlobalKnowledge(5, 5), docking, nil)
	report := knowledge.New(10, 10)
	require.NoError(t, report.Update(shared.Pt(8, 8), knowledge.Obstacle))
	require.NoError(t, report.Update(shared.Pt(0, 0), knowledge.Obstacle))

	result, err := st.HandleArrival(context.Background(), agent.ArrivedAtStation{Agent: 1, Seq: 1, Knowledge: report})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.NotEmpty(t, result.OutOfBounds)
	assert.Equal(t, knowledge.Obstacle, st.Knowledge().Tile(shared.Pt(0, 0)).Info)
}
