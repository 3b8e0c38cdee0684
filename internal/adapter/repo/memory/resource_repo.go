package memory

import (
	"context"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/world"
)

type ResourceRepo struct {
	store *Store
}

func NewResourceRepo(store *Store) ResourceRepo {
	return ResourceRepo{store: store}
}

func (r ResourceRepo) GetResources(ctx context.Context, ids []string) ([]world.Resource, error) {
	defer r.store.rlock(ctx)()
	out := make([]world.Resource, 0, len(ids))
	for _, id := range ids {
		if res, ok := r.store.resources[id]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r ResourceRepo) PutResource(ctx context.Context, res world.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}
	defer r.store.lock(ctx)()
	r.store.resources[res.ID] = res
	return nil
}

func (r ResourceRepo) LinkResources(ctx context.Context, worldID string, ids []string) error {
	defer r.store.lock(ctx)()
	rec, ok := r.store.worlds[worldID]
	if !ok {
		return ports.ErrNotFound
	}
	for _, id := range ids {
		if _, ok := r.store.resources[id]; !ok {
			return ports.ErrNotFound
		}
		rec.links[id] = true
	}
	return nil
}

func (r ResourceRepo) UnlinkResource(ctx context.Context, worldID, resourceID string) error {
	defer r.store.lock(ctx)()
	rec, ok := r.store.worlds[worldID]
	if !ok {
		return ports.ErrNotFound
	}
	delete(rec.links, resourceID)
	return nil
}
