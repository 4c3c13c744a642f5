package simulation

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned by repositories for unknown run ids
var ErrRunNotFound = errors.New("simulation run not found")

// RunRecord is the persisted summary of one simulation run
type RunRecord struct {
	ID           string
	Status       RunStatus
	Width        int
	Height       int
	TerrainSeed  int64
	ResourceSeed int64
	Agents       int
	Stats        Stats
	Error        string
	CreatedAt    time.Time
	StartedAt    *time.Time
	EndedAt      *time.Time
}

// NewRunRecord captures the lifecycle and counters of a run
func NewRunRecord(id string, lc *Lifecycle, stats Stats) *RunRecord {
	r := &RunRecord{
		ID:        id,
		Status:    lc.Status(),
		Stats:     stats,
		CreatedAt: lc.CreatedAt(),
		StartedAt: lc.StartedAt(),
		EndedAt:   lc.EndedAt(),
	}
	if err := lc.LastError(); err != nil {
		r.Error = err.Error()
	}
	return r
}

// RunRepository persists run summaries
type RunRepository interface {
	Save(ctx context.Context, run *RunRecord) error
	FindByID(ctx context.Context, id string) (*RunRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*RunRecord, error)
}
