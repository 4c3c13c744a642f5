package knowledge

import (
	"fmt"

	"github.com/andrescamacho/swarm-go/internal/domain/shared"
)

// Kind discriminates TileInfo
type Kind uint8

const (
	KindUnknown Kind = iota
	KindWalkable
	KindObstacle
	KindResource
	KindStation
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindWalkable:
		return "Walkable"
	case KindObstacle:
		return "Obstacle"
	case KindResource:
		return "Resource"
	case KindStation:
		return "Station"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// TileInfo is what an agent believes about one tile. Resource is only
// meaningful when Kind is KindResource.
type TileInfo struct {
	Kind     Kind
	Resource shared.Resource
}

var (
	Unknown  = TileInfo{Kind: KindUnknown}
	Walkable = TileInfo{Kind: KindWalkable}
	Obstacle = TileInfo{Kind: KindObstacle}
	Station  = TileInfo{Kind: KindStation}
)

// ResourceTile builds a Resource tile info
func ResourceTile(t shared.ResourceType, amount uint) TileInfo {
	return TileInfo{Kind: KindResource, Resource: shared.Resource{Type: t, Amount: amount}}
}

// IsKnown reports whether the tile carries a concrete observation
func (t TileInfo) IsKnown() bool {
	return t.Kind != KindUnknown
}

// IsPassable reports whether the tile is known and can be stepped on
func (t TileInfo) IsPassable() bool {
	return t.Kind == KindWalkable || t.Kind == KindResource || t.Kind == KindStation
}

// Holds reports whether the tile is a known deposit of type rt with amount > 0
func (t TileInfo) Holds(rt shared.ResourceType) bool {
	return t.Kind == KindResource && t.Resource.Type == rt && t.Resource.Amount > 0
}

func (t TileInfo) String() string {
	if t.Kind == KindResource {
		return fmt.Sprintf("Resource(%s,%d)", t.Resource.Type, t.Resource.Amount)
	}
	return t.Kind.String()
}
