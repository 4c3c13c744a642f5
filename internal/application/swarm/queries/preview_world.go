package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/swarm-go/internal/application/mediator"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/world"
)

// GridFramer draws a static frame of a grid
type GridFramer interface {
	Frame(g *world.Grid, agents []agent.Snapshot, fog *knowledge.AgentKnowledge) string
}

// PreviewWorldQuery generates a world without running agents
type PreviewWorldQuery struct {
	Width         int
	Height        int
	TerrainSeed   int64
	ResourceSeed  int64
	ResourceCount int
}

// PreviewWorldResponse describes the generated world
type PreviewWorldResponse struct {
	Frame         string
	StationCenter shared.Point
	Walkable      int
	Reachable     int
	Resources     map[shared.ResourceType]int
}

// PreviewWorldHandler handles the PreviewWorld query
type PreviewWorldHandler struct {
	framer GridFramer
}

// NewPreviewWorldHandler creates a new PreviewWorldHandler
func NewPreviewWorldHandler(framer GridFramer) *PreviewWorldHandler {
	return &PreviewWorldHandler{framer: framer}
}

// Handle executes the PreviewWorld query
func (h *PreviewWorldHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*PreviewWorldQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PreviewWorldQuery")
	}

	g, err := world.NewGeneratedGrid(query.Width, query.Height, query.TerrainSeed, query.ResourceSeed, query.ResourceCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate world: %w", err)
	}

	resp := &PreviewWorldResponse{
		StationCenter: g.StationCenter(),
		Walkable:      len(g.WalkableTiles()),
		Reachable:     len(g.ReachableTiles()),
		Resources:     make(map[shared.ResourceType]int),
	}
	for _, res := range g.Resources() {
		resp.Resources[res.Type]++
	}
	if h.framer != nil {
		resp.Frame = h.framer.Frame(g, nil, nil)
	}
	return resp, nil
}
