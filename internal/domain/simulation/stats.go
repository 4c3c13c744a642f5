package simulation

import (
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// Stats aggregates event counters for one run. Only the simulation loop
// goroutine mutates it.
type Stats struct {
	Ticks           int
	Events          map[agent.EventKind]int
	Collected       map[shared.ResourceType]uint
	ScienceValue    uint
	Merges          int
	TilesMerged     int
	Shutdowns       int
	ShutdownReasons map[string]int
}

// NewStats returns zeroed counters
func NewStats() *Stats {
	return &Stats{
		Events:          make(map[agent.EventKind]int),
		Collected:       make(map[shared.ResourceType]uint),
		ShutdownReasons: make(map[string]int),
	}
}

// Record folds one event into the counters
func (s *Stats) Record(ev agent.Event) {
	s.Events[ev.Kind()]++
	switch e := ev.(type) {
	case agent.CollectionData:
		s.Collected[e.Resource.Type] += e.Resource.Amount
	case agent.ScienceData:
		s.ScienceValue += e.Amount
	case agent.Shutdown:
		s.Shutdowns++
		s.ShutdownReasons[e.Reason]++
	}
}

// RecordMerge counts a completed station merge
func (s *Stats) RecordMerge(applied int) {
	s.Merges++
	s.TilesMerged += applied
}

// Clone returns a deep copy safe to hand to other goroutines
func (s *Stats) Clone() Stats {
	out := *s
	out.Events = make(map[agent.EventKind]int, len(s.Events))
	for k, v := range s.Events {
		out.Events[k] = v
	}
	out.Collected = make(map[shared.ResourceType]uint, len(s.Collected))
	for k, v := range s.Collected {
		out.Collected[k] = v
	}
	out.ShutdownReasons = make(map[string]int, len(s.ShutdownReasons))
	for k, v := range s.ShutdownReasons {
		out.ShutdownReasons[k] = v
	}
	return out
}
