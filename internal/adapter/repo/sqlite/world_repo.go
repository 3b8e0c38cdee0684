package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tileworld/internal/adapter/codec"
	"tileworld/internal/app/ports"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"
)

type WorldRepo struct {
	db *sql.DB
}

func NewWorldRepo(db *sql.DB) WorldRepo {
	return WorldRepo{db: db}
}

func (r WorldRepo) LoadWorld(ctx context.Context, worldID, memberID string) (ports.LoadedWorld, error) {
	q := conn(ctx, r.db)
	var (
		blob      []byte
		settings  agent.Settings
		createdAt string
	)
	err := q.QueryRowContext(ctx, `SELECT map_blob, npc_enabled, npc_count, stranger_enabled, stranger_density, created_at
		FROM worlds WHERE world_id = ?`, worldID).
		Scan(&blob, &settings.NPCEnabled, &settings.NPCCount, &settings.StrangerEnabled, &settings.StrangerDensity, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.LoadedWorld{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.LoadedWorld{}, err
	}
	m, err := codec.DecodeMap(blob)
	if err != nil {
		return ports.LoadedWorld{}, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return ports.LoadedWorld{}, fmt.Errorf("%w: created_at: %v", ports.ErrCorrupt, err)
	}

	ids, err := stringColumn(ctx, q, `SELECT resource_id FROM world_resources WHERE world_id = ? ORDER BY resource_id`, worldID)
	if err != nil {
		return ports.LoadedWorld{}, err
	}
	resources, err := NewResourceRepo(r.db).GetResources(ctx, ids)
	if err != nil {
		return ports.LoadedWorld{}, err
	}
	catalog, err := world.NewCatalog(resources)
	if err != nil {
		return ports.LoadedWorld{}, fmt.Errorf("%w: catalog: %v", ports.ErrCorrupt, err)
	}
	members, err := stringColumn(ctx, q, `SELECT member_id FROM player_states WHERE world_id = ? ORDER BY member_id`, worldID)
	if err != nil {
		return ports.LoadedWorld{}, err
	}

	out := ports.LoadedWorld{
		WorldID:   worldID,
		Map:       m,
		Catalog:   catalog,
		Members:   members,
		Settings:  settings,
		CreatedAt: created,
	}
	var body string
	err = q.QueryRowContext(ctx, `SELECT body FROM player_states WHERE world_id = ? AND member_id = ?`, worldID, memberID).Scan(&body)
	switch {
	case err == nil:
		var state survival.PlayerState
		if err := json.Unmarshal([]byte(body), &state); err != nil {
			return ports.LoadedWorld{}, fmt.Errorf("%w: player state: %v", ports.ErrCorrupt, err)
		}
		out.Player = &state
	case !errors.Is(err, sql.ErrNoRows):
		return ports.LoadedWorld{}, err
	}
	return out, nil
}

func (r WorldRepo) CreateWorld(ctx context.Context, w ports.LoadedWorld) error {
	blob, err := codec.EncodeMap(w.Map)
	if err != nil {
		return err
	}
	now := stamp(time.Now())
	res, err := conn(ctx, r.db).ExecContext(ctx, `INSERT INTO worlds
		(world_id, width, height, map_blob, npc_enabled, npc_count, stranger_enabled, stranger_density, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(world_id) DO NOTHING`,
		w.WorldID, w.Map.Width, w.Map.Height, blob,
		w.Settings.NPCEnabled, w.Settings.NPCCount, w.Settings.StrangerEnabled, w.Settings.StrangerDensity,
		stamp(w.CreatedAt), now)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrConflict
	}
	if w.Player != nil {
		return r.SavePlayerState(ctx, w.WorldID, *w.Player)
	}
	return nil
}

func (r WorldRepo) SaveMap(ctx context.Context, worldID string, m *world.WorldMap) error {
	blob, err := codec.EncodeMap(m)
	if err != nil {
		return err
	}
	return r.update(ctx, `UPDATE worlds SET map_blob = ?, width = ?, height = ?, updated_at = ? WHERE world_id = ?`,
		blob, m.Width, m.Height, stamp(time.Now()), worldID)
}

func (r WorldRepo) SaveSettings(ctx context.Context, worldID string, s agent.Settings) error {
	return r.update(ctx, `UPDATE worlds SET npc_enabled = ?, npc_count = ?, stranger_enabled = ?, stranger_density = ?, updated_at = ?
		WHERE world_id = ?`,
		s.NPCEnabled, s.NPCCount, s.StrangerEnabled, s.StrangerDensity, stamp(time.Now()), worldID)
}

func (r WorldRepo) SavePlayerState(ctx context.Context, worldID string, s survival.PlayerState) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal player state: %w", err)
	}
	q := conn(ctx, r.db)
	var exists int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(1) FROM worlds WHERE world_id = ?`, worldID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ports.ErrNotFound
	}
	_, err = q.ExecContext(ctx, `INSERT INTO player_states (world_id, member_id, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(world_id, member_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		worldID, s.MemberID, string(body), stamp(time.Now()))
	return err
}

func (r WorldRepo) update(ctx context.Context, query string, args ...any) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func stringColumn(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
