package agent

import (
	"fmt"
	"strings"
	"time"
)

// Role selects an agent's specialization
type Role int

const (
	RoleExplorer Role = iota
	RoleCollector
	RoleScientist
)

// AllRoles lists roles in spawn order
var AllRoles = []Role{RoleExplorer, RoleCollector, RoleScientist}

func (r Role) String() string {
	switch r {
	case RoleExplorer:
		return "explorer"
	case RoleCollector:
		return "collector"
	case RoleScientist:
		return "scientist"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ActiveLabel is the role-specific name of the Active status
func (r Role) ActiveLabel() string {
	switch r {
	case RoleExplorer:
		return "Exploring"
	case RoleCollector:
		return "Collecting"
	case RoleScientist:
		return "Analyzing"
	default:
		return "Active"
	}
}

// Symbol is the single-letter map marker for the role
func (r Role) Symbol() rune {
	switch r {
	case RoleExplorer:
		return 'x'
	case RoleCollector:
		return 'c'
	case RoleScientist:
		return 's'
	default:
		return '?'
	}
}

// ParseRole parses a role name case-insensitively
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if strings.EqualFold(r.String(), s) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// RoleConfig holds the per-role tuning knobs
type RoleConfig struct {
	MaxEnergy          uint
	LowEnergyThreshold uint
	MovementCost       uint
	ActionCost         uint
	MaxCapacity        uint
	SleepMin           time.Duration
	SleepMax           time.Duration
}

const (
	DefaultMaxCapacity = 700

	DefaultReturnSleepMin = 150 * time.Millisecond
	DefaultReturnSleepMax = 400 * time.Millisecond
	DefaultDockSleep      = 100 * time.Millisecond
	DefaultMergeTimeout   = 3 * time.Second
)

// DefaultRoleConfig returns the stock tuning for role
func DefaultRoleConfig(role Role) RoleConfig {
	switch role {
	case RoleCollector:
		return RoleConfig{
			MaxEnergy:          500,
			LowEnergyThreshold: 25,
			MovementCost:       2,
			ActionCost:         3,
			MaxCapacity:        DefaultMaxCapacity,
			SleepMin:           400 * time.Millisecond,
			SleepMax:           900 * time.Millisecond,
		}
	case RoleScientist:
		return RoleConfig{
			MaxEnergy:          500,
			LowEnergyThreshold: 30,
			MovementCost:       1,
			ActionCost:         5,
			MaxCapacity:        DefaultMaxCapacity,
			SleepMin:           800 * time.Millisecond,
			SleepMax:           1500 * time.Millisecond,
		}
	default:
		return RoleConfig{
			MaxEnergy:          800,
			LowEnergyThreshold: 20,
			MovementCost:       1,
			MaxCapacity:        DefaultMaxCapacity,
			SleepMin:           300 * time.Millisecond,
			SleepMax:           600 * time.Millisecond,
		}
	}
}
