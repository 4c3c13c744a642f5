package simulation

import (
	"fmt"
	"time"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// RunStatus is where a simulation run is in its lifecycle
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusStopped   RunStatus = "STOPPED"
)

// Lifecycle tracks PENDING → RUNNING → COMPLETED/FAILED/STOPPED with
// clock-stamped transitions.
type Lifecycle struct {
	status    RunStatus
	createdAt time.Time
	startedAt *time.Time
	endedAt   *time.Time
	lastError error
	clock     shared.Clock
}

// NewLifecycle starts in PENDING
func NewLifecycle(clock shared.Clock) *Lifecycle {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Lifecycle{
		status:    RunStatusPending,
		createdAt: clock.Now(),
		clock:     clock,
	}
}

func (l *Lifecycle) Status() RunStatus     { return l.status }
func (l *Lifecycle) CreatedAt() time.Time  { return l.createdAt }
func (l *Lifecycle) StartedAt() *time.Time { return l.startedAt }
func (l *Lifecycle) EndedAt() *time.Time   { return l.endedAt }
func (l *Lifecycle) LastError() error      { return l.lastError }

// Start transitions PENDING → RUNNING
func (l *Lifecycle) Start() error {
	if l.status != RunStatusPending {
		return fmt.Errorf("cannot start from %s state", l.status)
	}
	now := l.clock.Now()
	l.status = RunStatusRunning
	l.startedAt = &now
	return nil
}

// Complete transitions RUNNING → COMPLETED
func (l *Lifecycle) Complete() error {
	if l.status != RunStatusRunning {
		return fmt.Errorf("cannot complete from %s state", l.status)
	}
	l.finish(RunStatusCompleted)
	return nil
}

// Stop transitions RUNNING → STOPPED, used when the run is interrupted
func (l *Lifecycle) Stop() error {
	if l.status != RunStatusRunning {
		return fmt.Errorf("cannot stop from %s state", l.status)
	}
	l.finish(RunStatusStopped)
	return nil
}

// Fail records err and transitions to FAILED from any non-terminal state
func (l *Lifecycle) Fail(err error) error {
	if l.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", l.status)
	}
	l.lastError = err
	l.finish(RunStatusFailed)
	return nil
}

func (l *Lifecycle) finish(status RunStatus) {
	now := l.clock.Now()
	l.status = status
	l.endedAt = &now
}

// IsFinished reports whether the run reached a terminal state
func (l *Lifecycle) IsFinished() bool {
	return l.status == RunStatusCompleted ||
		l.status == RunStatusFailed ||
		l.status == RunStatusStopped
}

// Duration is how long the run has been or was running; 0 before Start
func (l *Lifecycle) Duration() time.Duration {
	if l.startedAt == nil {
		return 0
	}
	end := l.clock.Now()
	if l.endedAt != nil {
		end = *l.endedAt
	}
	return end.Sub(*l.startedAt)
}
