package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/mediator"
	"github.com/andrescamacho/swarm-go/internal/domain/simulation"
)

const defaultLogLimit = 100

// RunLogReader reads journaled entries back
type RunLogReader interface {
	GetLogs(ctx context.Context, runID string, limit int, level, scope *string) ([]logging.Entry, error)
	CountByLevel(ctx context.Context, runID string) (map[string]int64, error)
}

// GetRunLogsQuery fetches the journal of one run
type GetRunLogsQuery struct {
	RunID string
	Limit int
	Level *string
	Scope *string
}

// GetRunLogsResponse holds entries newest first plus per-level totals
type GetRunLogsResponse struct {
	Run     *simulation.RunRecord
	Entries []logging.Entry
	Counts  map[string]int64
}

// GetRunLogsHandler handles the GetRunLogs query
type GetRunLogsHandler struct {
	runRepo simulation.RunRepository
	logs    RunLogReader
}

// NewGetRunLogsHandler creates a new GetRunLogsHandler
func NewGetRunLogsHandler(runRepo simulation.RunRepository, logs RunLogReader) *GetRunLogsHandler {
	return &GetRunLogsHandler{runRepo: runRepo, logs: logs}
}

// Handle executes the GetRunLogs query
func (h *GetRunLogsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetRunLogsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRunLogsQuery")
	}
	if query.RunID == "" {
		return nil, fmt.Errorf("run id is required")
	}

	run, err := h.runRepo.FindByID(ctx, query.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to find run %s: %w", query.RunID, err)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	level := query.Level
	if level != nil {
		upper := strings.ToUpper(*level)
		level = &upper
	}

	entries, err := h.logs.GetLogs(ctx, query.RunID, limit, level, query.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}
	counts, err := h.logs.CountByLevel(ctx, query.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to count logs: %w", err)
	}

	return &GetRunLogsResponse{Run: run, Entries: entries, Counts: counts}, nil
}
