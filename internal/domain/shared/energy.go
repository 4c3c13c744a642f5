package shared

import "fmt"

// Energy tracks an agent's charge. Unlike the cargo hold it is mutated in place
// by the single goroutine owning the agent.
type Energy struct {
	Current  uint
	Capacity uint
}

// NewEnergy creates a full energy store
func NewEnergy(capacity uint) Energy {
	return Energy{Current: capacity, Capacity: capacity}
}

// Use spends amount. When amount exceeds the current charge the call fails and
// the charge is clamped to zero.
func (e *Energy) Use(amount uint) bool {
	if amount > e.Current {
		e.Current = 0
		return false
	}
	e.Current -= amount
	return true
}

// Drain spends up to amount without failing
func (e *Energy) Drain(amount uint) {
	if amount > e.Current {
		e.Current = 0
		return
	}
	e.Current -= amount
}

// Recharge restores the store to capacity
func (e *Energy) Recharge() {
	e.Current = e.Capacity
}

// Percentage returns energy as percentage of capacity
func (e Energy) Percentage() float64 {
	if e.Capacity == 0 {
		return 0.0
	}
	return float64(e.Current) / float64(e.Capacity) * 100.0
}

// IsFull checks if energy is at capacity
func (e Energy) IsFull() bool {
	return e.Current == e.Capacity
}

func (e Energy) String() string {
	return fmt.Sprintf("Energy(%d/%d)", e.Current, e.Capacity)
}
