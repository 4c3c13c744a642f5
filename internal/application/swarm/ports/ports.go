package ports

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/swarm-go/internal/domain/agent"
)

var (
	// ErrMergeTimeout is returned when no reply arrives within the docking timeout
	ErrMergeTimeout = errors.New("merge reply timed out")
	// ErrReplyDisconnected is returned when the agent's reply path was closed
	ErrReplyDisconnected = errors.New("merge reply path disconnected")
	// ErrCoordinatorShutdown is returned for deliveries after shutdown
	ErrCoordinatorShutdown = errors.New("docking coordinator is shutdown")
	// ErrAgentNotRegistered is returned for agents without a reply path
	ErrAgentNotRegistered = errors.New("agent not registered with docking coordinator")
)

// EventPublisher is the producer side of the event bus
type EventPublisher interface {
	Publish(ev agent.Event) error
}

// DockingCoordinator owns the private per-agent reply paths between the
// station and docking agents. Replies never travel over the shared bus.
type DockingCoordinator interface {
	// Register creates the reply path for id; registering twice is a no-op
	Register(id agent.ID) error

	// AwaitMerge blocks until the reply for docking request seq arrives, the
	// timeout elapses or ctx is cancelled. Replies for other requests are
	// discarded.
	AwaitMerge(ctx context.Context, id agent.ID, seq uint64, timeout time.Duration) (agent.MergeComplete, error)

	// DeliverMerge hands a reply to its agent without blocking. An unread
	// older reply is replaced.
	DeliverMerge(reply agent.MergeComplete) error

	// Unregister closes and forgets id's reply path
	Unregister(id agent.ID)

	// Shutdown closes every reply path
	Shutdown() error
}
