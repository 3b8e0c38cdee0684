package memory

import (
	"context"
	"fmt"
	"sort"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

type WorldRepo struct {
	store *Store
}

func NewWorldRepo(store *Store) WorldRepo {
	return WorldRepo{store: store}
}

func (r WorldRepo) LoadWorld(ctx context.Context, worldID, memberID string) (ports.LoadedWorld, error) {
	defer r.store.rlock(ctx)()
	rec, ok := r.store.worlds[worldID]
	if !ok {
		return ports.LoadedWorld{}, ports.ErrNotFound
	}
	ids := make([]string, 0, len(rec.links))
	for id := range rec.links {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	resources := make([]world.Resource, 0, len(ids))
	for _, id := range ids {
		if res, ok := r.store.resources[id]; ok {
			resources = append(resources, res)
		}
	}
	catalog, err := world.NewCatalog(resources)
	if err != nil {
		return ports.LoadedWorld{}, fmt.Errorf("%w: catalog: %v", ports.ErrCorrupt, err)
	}
	out := ports.LoadedWorld{
		WorldID:   worldID,
		Map:       rec.m.Clone(),
		Catalog:   catalog,
		Settings:  rec.settings,
		CreatedAt: rec.createdAt,
	}
	members := r.store.players[worldID]
	for id := range members {
		out.Members = append(out.Members, id)
	}
	sort.Strings(out.Members)
	if state, ok := members[memberID]; ok {
		state = state.Clone()
		out.Player = &state
	}
	return out, nil
}

func (r WorldRepo) CreateWorld(ctx context.Context, w ports.LoadedWorld) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.worlds[w.WorldID]; ok {
		return ports.ErrConflict
	}
	r.store.worlds[w.WorldID] = &worldRecord{
		m:         w.Map.Clone(),
		settings:  w.Settings,
		createdAt: w.CreatedAt,
		links:     map[string]bool{},
	}
	if w.Player != nil {
		r.putPlayer(w.WorldID, *w.Player)
	}
	return nil
}

func (r WorldRepo) SaveMap(ctx context.Context, worldID string, m *world.WorldMap) error {
	defer r.store.lock(ctx)()
	rec, ok := r.store.worlds[worldID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.m = m.Clone()
	return nil
}

func (r WorldRepo) SavePlayerState(ctx context.Context, worldID string, state survival.PlayerState) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.worlds[worldID]; !ok {
		return ports.ErrNotFound
	}
	r.putPlayer(worldID, state)
	return nil
}

func (r WorldRepo) SaveSettings(ctx context.Context, worldID string, settings agent.Settings) error {
	defer r.store.lock(ctx)()
	rec, ok := r.store.worlds[worldID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.settings = settings
	return nil
}

func (r WorldRepo) putPlayer(worldID string, state survival.PlayerState) {
	members, ok := r.store.players[worldID]
	if !ok {
		members = map[string]survival.PlayerState{}
		r.store.players[worldID] = members
	}
	members[state.MemberID] = state.Clone()
}
