package simulation

import (
	"sort"
	"time"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// HealthMonitor watches agents for silence. Every event refreshes an agent's
// heartbeat; agents silent for longer than the stall timeout are reported.
type HealthMonitor struct {
	checkInterval time.Duration
	stallTimeout  time.Duration
	lastCheckTime *time.Time
	heartbeats    map[agent.ID]time.Time
	flagged       map[agent.ID]bool
	clock         shared.Clock
}

// NewHealthMonitor creates a new health monitor instance
func NewHealthMonitor(checkInterval, stallTimeout time.Duration, clock shared.Clock) *HealthMonitor {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &HealthMonitor{
		checkInterval: checkInterval,
		stallTimeout:  stallTimeout,
		heartbeats:    make(map[agent.ID]time.Time),
		flagged:       make(map[agent.ID]bool),
		clock:         clock,
	}
}

func (hm *HealthMonitor) StallTimeout() time.Duration { return hm.stallTimeout }

// Watch starts tracking id from now
func (hm *HealthMonitor) Watch(id agent.ID) {
	hm.heartbeats[id] = hm.clock.Now()
}

// Beat refreshes id's heartbeat and clears any stall flag
func (hm *HealthMonitor) Beat(id agent.ID) {
	if _, ok := hm.heartbeats[id]; !ok {
		return
	}
	hm.heartbeats[id] = hm.clock.Now()
	delete(hm.flagged, id)
}

// Forget stops tracking id
func (hm *HealthMonitor) Forget(id agent.ID) {
	delete(hm.heartbeats, id)
	delete(hm.flagged, id)
}

// RunCheck returns agents that became stalled since the last check, sorted by
// id. Returns skipped=true when called within the check interval.
func (hm *HealthMonitor) RunCheck() (newlyStalled []agent.ID, skipped bool) {
	now := hm.clock.Now()
	if hm.lastCheckTime != nil && now.Sub(*hm.lastCheckTime) < hm.checkInterval {
		return nil, true
	}
	hm.lastCheckTime = &now

	if hm.stallTimeout <= 0 {
		return nil, false
	}
	for id, last := range hm.heartbeats {
		if now.Sub(last) > hm.stallTimeout && !hm.flagged[id] {
			hm.flagged[id] = true
			newlyStalled = append(newlyStalled, id)
		}
	}
	sort.Slice(newlyStalled, func(i, j int) bool { return newlyStalled[i] < newlyStalled[j] })
	return newlyStalled, false
}

// StalledCount is the number of agents currently flagged
func (hm *HealthMonitor) StalledCount() int {
	return len(hm.flagged)
}
