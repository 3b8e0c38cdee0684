package ports

import (
	"context"
	"time"

	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

// LoadedWorld is everything the engine needs to resume a world in one fetch.
type LoadedWorld struct {
	WorldID   string
	Map       *world.WorldMap
	Catalog   world.Catalog
	Player    *survival.PlayerState
	Members   []string
	Settings  agent.Settings
	CreatedAt time.Time
}

// WorldStore persists the map, member state and population settings of a
// world. LoadWorld returns ErrNotFound for an unknown world id. Player is nil
// when memberID has no saved state yet.
type WorldStore interface {
	LoadWorld(ctx context.Context, worldID, memberID string) (LoadedWorld, error)
	CreateWorld(ctx context.Context, w LoadedWorld) error
	SaveMap(ctx context.Context, worldID string, m *world.WorldMap) error
	SavePlayerState(ctx context.Context, worldID string, state survival.PlayerState) error
	SaveSettings(ctx context.Context, worldID string, settings agent.Settings) error
}

// CatalogStore holds resource definitions shared across worlds. Entries are
// inserted or updated, never deleted; a world only drops its reference.
type CatalogStore interface {
	GetResources(ctx context.Context, ids []string) ([]world.Resource, error)
	PutResource(ctx context.Context, r world.Resource) error
	LinkResources(ctx context.Context, worldID string, ids []string) error
	UnlinkResource(ctx context.Context, worldID, resourceID string) error
}
