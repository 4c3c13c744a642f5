package swarm

import (
	"errors"
	"sync"

	"github.com/andrescamacho/swarm-go/internal/application/swarm/ports"
	"github.com/andrescamacho/swarm-go/internal/domain/agent"
)

// ErrBusClosed is returned by Publish after Close
var ErrBusClosed = errors.New("event bus closed")

// EventBus is an unbounded many-producer, single-consumer queue. Events from
// one producer are received in the order they were published; there is no
// ordering across producers.
type EventBus struct {
	mu     sync.Mutex
	queue  []agent.Event
	closed bool
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Publish appends ev. It never blocks on the consumer.
func (b *EventBus) Publish(ev agent.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBusClosed
	}
	b.queue = append(b.queue, ev)
	return nil
}

// TryReceive pops the oldest event, if any
func (b *EventBus) TryReceive() (agent.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return nil, false
	}
	ev := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	return ev, true
}

// Drain removes and returns every pending event
func (b *EventBus) Drain() []agent.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return nil
	}
	events := b.queue
	b.queue = nil
	return events
}

// Len is the number of pending events
func (b *EventBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Close rejects further publishes. Pending events stay drainable.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

var _ ports.EventPublisher = (*EventBus)(nil)
