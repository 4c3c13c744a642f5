package shared

import (
	"fmt"
	"strings"
)

// ResourceType identifies what a deposit yields
type ResourceType int

const (
	ResourceEnergy ResourceType = iota
	ResourceMinerals
	ResourceSciencePoints
)

// AllResourceTypes lists every resource type in declaration order
var AllResourceTypes = []ResourceType{ResourceEnergy, ResourceMinerals, ResourceSciencePoints}

func (t ResourceType) String() string {
	switch t {
	case ResourceEnergy:
		return "Energy"
	case ResourceMinerals:
		return "Minerals"
	case ResourceSciencePoints:
		return "SciencePoints"
	default:
		return fmt.Sprintf("ResourceType(%d)", int(t))
	}
}

// IsConsumable reports whether collecting the resource removes it from the grid.
// SciencePoints deposits persist; only their analyzed value is harvested.
func (t ResourceType) IsConsumable() bool {
	return t == ResourceEnergy || t == ResourceMinerals
}

// ParseResourceType accepts the names produced by String in any case, with
// or without underscores ("minerals", "science_points")
func ParseResourceType(s string) (ResourceType, error) {
	normalized := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for _, t := range AllResourceTypes {
		if strings.ToLower(t.String()) == normalized {
			return t, nil
		}
	}
	return 0, NewValidationError("resource_type", fmt.Sprintf("unknown resource type %q", s))
}

// Resource is a deposit sitting on a tile
type Resource struct {
	Type   ResourceType
	Amount uint
}

func (r Resource) String() string {
	return fmt.Sprintf("%s(%d)", r.Type, r.Amount)
}
