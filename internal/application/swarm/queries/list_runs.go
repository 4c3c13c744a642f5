package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/swarm-go/internal/application/mediator"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
)

const defaultRunLimit = 20

// ListRunsQuery lists the most recent simulation runs
type ListRunsQuery struct {
	Limit int
}

// ListRunsResponse holds runs newest first
type ListRunsResponse struct {
	Runs []*simulation.RunRecord
}

// ListRunsHandler handles the ListRuns query
type ListRunsHandler struct {
	runRepo simulation.RunRepository
}

// NewListRunsHandler creates a new ListRunsHandler
func NewListRunsHandler(runRepo simulation.RunRepository) *ListRunsHandler {
	return &ListRunsHandler{runRepo: runRepo}
}

// Handle executes the ListRuns query
func (h *ListRunsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListRunsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListRunsQuery")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}

	runs, err := h.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return &ListRunsResponse{Runs: runs}, nil
}
