package agent

import (
	"github.com/andrescamacho/swarm-go/internal/domain/knowledge"
	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// EventKind names an Event variant
type EventKind string

const (
	KindExplorationData  EventKind = "exploration_data"
	KindCollectionData   EventKind = "collection_data"
	KindScienceData      EventKind = "science_data"
	KindLowEnergy        EventKind = "low_energy"
	KindReturnToBase     EventKind = "return_to_base"
	KindArrivedAtStation EventKind = "arrived_at_station"
	KindMergeComplete    EventKind = "merge_complete"
	KindShutdown         EventKind = "shutdown"
)

// Event is the closed set of messages exchanged between agents, the simulation
// loop and the station. Only types in this package implement it.
type Event interface {
	Source() ID
	Kind() EventKind
	isEvent()
}

// ExplorationData reports a successful explorer move
type ExplorationData struct {
	Agent    ID
	Position shared.Point
	// Discovered counts tiles that went from Unknown to known on this tick
	Discovered int
}

// CollectionData reports a deposit lifted off the grid
type CollectionData struct {
	Agent    ID
	Position shared.Point
	Resource shared.Resource
}

// ScienceData reports an analysis recorded in a scientist's hold
type ScienceData struct {
	Agent    ID
	Position shared.Point
	Amount   uint
	Modules  []string
}

// LowEnergy is emitted when energy drops to the return threshold
type LowEnergy struct {
	Agent  ID
	Energy uint
}

// ReturnToBase is emitted when an agent heads back to the station
type ReturnToBase struct {
	Agent  ID
	Reason string
}

// ArrivedAtStation carries a docking agent's knowledge to the station. Seq
// identifies the docking request; the matching MergeComplete echoes it.
type ArrivedAtStation struct {
	Agent     ID
	Seq       uint64
	Knowledge *knowledge.AgentKnowledge
}

// MergeComplete returns the fused knowledge on the agent's private reply path
type MergeComplete struct {
	Agent     ID
	Seq       uint64
	Knowledge *knowledge.AgentKnowledge
}

// Shutdown is the last event an agent publishes
type Shutdown struct {
	Agent  ID
	Reason string
}

func (e ExplorationData) Source() ID  { return e.Agent }
func (e CollectionData) Source() ID   { return e.Agent }
func (e ScienceData) Source() ID      { return e.Agent }
func (e LowEnergy) Source() ID        { return e.Agent }
func (e ReturnToBase) Source() ID     { return e.Agent }
func (e ArrivedAtStation) Source() ID { return e.Agent }
func (e MergeComplete) Source() ID    { return e.Agent }
func (e Shutdown) Source() ID         { return e.Agent }

func (ExplorationData) Kind() EventKind  { return KindExplorationData }
func (CollectionData) Kind() EventKind   { return KindCollectionData }
func (ScienceData) Kind() EventKind      { return KindScienceData }
func (LowEnergy) Kind() EventKind        { return KindLowEnergy }
func (ReturnToBase) Kind() EventKind     { return KindReturnToBase }
func (ArrivedAtStation) Kind() EventKind { return KindArrivedAtStation }
func (MergeComplete) Kind() EventKind    { return KindMergeComplete }
func (Shutdown) Kind() EventKind         { return KindShutdown }

func (ExplorationData) isEvent()  {}
func (CollectionData) isEvent()   {}
func (ScienceData) isEvent()      {}
func (LowEnergy) isEvent()        {}
func (ReturnToBase) isEvent()     {}
func (ArrivedAtStation) isEvent() {}
func (MergeComplete) isEvent()    {}
func (Shutdown) isEvent()         {}
