package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tileworld/internal/app/ports"
	"tileworld/internal/domain/world"
)

type ResourceRepo struct {
	db *sql.DB
}

func NewResourceRepo(db *sql.DB) ResourceRepo {
	return ResourceRepo{db: db}
}

func (r ResourceRepo) GetResources(ctx context.Context, ids []string) ([]world.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT resource_id, body FROM resources WHERE resource_id IN (`+placeholders+`) ORDER BY resource_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []world.Resource
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		var res world.Resource
		if err := json.Unmarshal([]byte(body), &res); err != nil {
			return nil, fmt.Errorf("%w: resource %s: %v", ports.ErrCorrupt, id, err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r ResourceRepo) PutResource(ctx context.Context, res world.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal resource: %w", err)
	}
	_, err = conn(ctx, r.db).ExecContext(ctx, `INSERT INTO resources (resource_id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(resource_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		res.ID, string(body), stamp(time.Now()))
	return err
}

func (r ResourceRepo) LinkResources(ctx context.Context, worldID string, ids []string) error {
	q := conn(ctx, r.db)
	for _, id := range ids {
		if _, err := q.ExecContext(ctx, `INSERT INTO world_resources (world_id, resource_id) VALUES (?, ?)
			ON CONFLICT(world_id, resource_id) DO NOTHING`, worldID, id); err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY") {
				return fmt.Errorf("%w: link %s", ports.ErrNotFound, id)
			}
			return err
		}
	}
	return nil
}

func (r ResourceRepo) UnlinkResource(ctx context.Context, worldID, resourceID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM world_resources WHERE world_id = ? AND resource_id = ?`, worldID, resourceID)
	return err
}
