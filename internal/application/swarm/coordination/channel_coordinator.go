package coordination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/swarm-go/internal/application/swarm/ports"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
)

// ChannelDockingCoordinator implements DockingCoordinator with one buffered
// channel per agent, created at spawn and looked up by id.
type ChannelDockingCoordinator struct {
	// Station → Agent: fused knowledge replies (per-agent channels)
	replyChans map[agent.ID]chan agent.MergeComplete

	mu       sync.RWMutex
	shutdown bool
}

// NewChannelDockingCoordinator creates reply paths for ids
func NewChannelDockingCoordinator(ids []agent.ID) *ChannelDockingCoordinator {
	replyChans := make(map[agent.ID]chan agent.MergeComplete, len(ids))
	for _, id := range ids {
		replyChans[id] = make(chan agent.MergeComplete, 1) // Buffered so the station never blocks
	}
	return &ChannelDockingCoordinator{replyChans: replyChans}
}

func (c *ChannelDockingCoordinator) Register(id agent.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ports.ErrCoordinatorShutdown
	}
	if _, ok := c.replyChans[id]; !ok {
		c.replyChans[id] = make(chan agent.MergeComplete, 1)
	}
	return nil
}

// AwaitMerge is called by a docked agent and blocks on its own reply channel
func (c *ChannelDockingCoordinator) AwaitMerge(ctx context.Context, id agent.ID, seq uint64, timeout time.Duration) (agent.MergeComplete, error) {
	c.mu.RLock()
	if c.shutdown {
		c.mu.RUnlock()
		return agent.MergeComplete{}, ports.ErrReplyDisconnected
	}
	replyChan := c.replyChans[id]
	c.mu.RUnlock()

	if replyChan == nil {
		return agent.MergeComplete{}, fmt.Errorf("%s: %w", id, ports.ErrAgentNotRegistered)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case reply, ok := <-replyChan:
			if !ok {
				return agent.MergeComplete{}, ports.ErrReplyDisconnected
			}
			if reply.Seq != seq {
				continue // reply to an earlier, timed-out request
			}
			return reply, nil
		case <-timer.C:
			return agent.MergeComplete{}, ports.ErrMergeTimeout
		case <-ctx.Done():
			return agent.MergeComplete{}, ctx.Err()
		}
	}
}

// DeliverMerge is called by the station after a merge
func (c *ChannelDockingCoordinator) DeliverMerge(reply agent.MergeComplete) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return ports.ErrCoordinatorShutdown
	}
	replyChan := c.replyChans[reply.Agent]
	if replyChan == nil {
		return fmt.Errorf("%s: %w", reply.Agent, ports.ErrAgentNotRegistered)
	}

	select {
	case replyChan <- reply:
		return nil
	default:
	}

	// Unread reply from an abandoned request; deliveries are serialized by mu
	// so after draining the send cannot block.
	select {
	case <-replyChan:
	default:
	}
	replyChan <- reply
	return nil
}

func (c *ChannelDockingCoordinator) Unregister(id agent.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.replyChans[id]; ok {
		close(ch)
		delete(c.replyChans, id)
	}
}

// Shutdown gracefully stops the coordinator, closing all reply channels.
func (c *ChannelDockingCoordinator) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return nil
	}
	c.shutdown = true

	for id, ch := range c.replyChans {
		close(ch)
		delete(c.replyChans, id)
	}
	return nil
}

var _ ports.DockingCoordinator = (*ChannelDockingCoordinator)(nil)
