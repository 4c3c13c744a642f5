package swarm

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/swarm-go/internal/adapters/metrics"
	"github.com/andrescamacho/swarm-go/internal/application/logging"
	"github.com/andrescamacho/swarm-go/internal/application/swarm/ports"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
	"github.com/andrescamacho/swarm-go/internal/domain/station"
)

// Station fuses docking reports into the global view and replies on the
// agent's private path. Merges are performed one at a time by the caller.
type Station struct {
	knowledge *station.GlobalKnowledge
	docking   ports.DockingCoordinator
	clock     shared.Clock

	// Bounds out-of-bounds warnings; a malformed report can carry many
	oobLimiter *rate.Limiter
}

// NewStation creates a station over gk
func NewStation(gk *station.GlobalKnowledge, docking ports.DockingCoordinator, clock shared.Clock) *Station {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Station{
		knowledge:  gk,
		docking:    docking,
		clock:      clock,
		oobLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Knowledge exposes the fused view
func (s *Station) Knowledge() *station.GlobalKnowledge { return s.knowledge }

// HandleArrival merges the report stamped with the station clock and sends the
// fused snapshot back to the agent. A delivery failure is returned after the
// merge has been applied.
func (s *Station) HandleArrival(ctx context.Context, ev agent.ArrivedAtStation) (station.MergeResult, error) {
	logger := logging.LoggerFromContext(ctx)

	if ev.Knowledge == nil {
		return station.MergeResult{}, s.reply(ev)
	}

	start := time.Now()
	result := s.knowledge.Merge(ev.Agent, ev.Knowledge, s.clock.Now())
	metrics.RecordMerge(result.Applied, time.Since(start))

	for _, p := range result.OutOfBounds {
		if !s.oobLimiter.Allow() {
			break
		}
		logger.Log(logging.LevelWarning, "Dropped out-of-bounds knowledge update", map[string]interface{}{
			"agent_id": ev.Agent.String(),
			"x":        p.X,
			"y":        p.Y,
		})
	}

	logger.Log(logging.LevelDebug, "Merged agent knowledge", map[string]interface{}{
		"agent_id": ev.Agent.String(),
		"seq":      ev.Seq,
		"applied":  result.Applied,
		"rejected": result.Rejected,
		"skipped":  result.Skipped,
	})

	return result, s.reply(ev)
}

func (s *Station) reply(ev agent.ArrivedAtStation) error {
	err := s.docking.DeliverMerge(agent.MergeComplete{
		Agent:     ev.Agent,
		Seq:       ev.Seq,
		Knowledge: s.knowledge.Snapshot(),
	})
	if errors.Is(err, ports.ErrAgentNotRegistered) {
		// agent shut down while waiting
		return nil
	}
	return err
}
