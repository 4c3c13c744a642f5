package shared

import (
	"fmt"
	"sort"
	"strings"
)

// Cargo is an agent's hold: carried amounts per resource type bounded by a
// total capacity shared across all types.
type Cargo struct {
	Capacity uint
	items    map[ResourceType]uint
}

// NewCargo creates an empty hold
func NewCargo(capacity uint) *Cargo {
	return &Cargo{
		Capacity: capacity,
		items:    make(map[ResourceType]uint),
	}
}

// Total returns the sum of all carried amounts
func (c *Cargo) Total() uint {
	var total uint
	for _, amount := range c.items {
		total += amount
	}
	return total
}

// Available returns remaining room in the hold
func (c *Cargo) Available() uint {
	total := c.Total()
	if total >= c.Capacity {
		return 0
	}
	return c.Capacity - total
}

// IsFull checks if no more units fit
func (c *Cargo) IsFull() bool {
	return c.Total() >= c.Capacity
}

// Amount returns carried units of one resource type
func (c *Cargo) Amount(t ResourceType) uint {
	return c.items[t]
}

// Load stores amount of t in the hold. All or nothing: when the load does not
// fit, the hold is unchanged and a CapacityExceededError is returned.
func (c *Cargo) Load(t ResourceType, amount uint) error {
	if amount > c.Available() {
		return NewCapacityExceededError(amount, c.Available())
	}
	c.items[t] += amount
	return nil
}

// Discard drops everything carried of one type
func (c *Cargo) Discard(t ResourceType) {
	delete(c.items, t)
}

// Clear empties the hold
func (c *Cargo) Clear() {
	c.items = make(map[ResourceType]uint)
}

// Snapshot returns a copy of the carried amounts
func (c *Cargo) Snapshot() map[ResourceType]uint {
	out := make(map[ResourceType]uint, len(c.items))
	for t, amount := range c.items {
		out[t] = amount
	}
	return out
}

func (c *Cargo) String() string {
	parts := make([]string, 0, len(c.items))
	for t, amount := range c.items {
		parts = append(parts, fmt.Sprintf("%s=%d", t, amount))
	}
	sort.Strings(parts)
	return fmt.Sprintf("Cargo(%d/%d %s)", c.Total(), c.Capacity, strings.Join(parts, ","))
}
