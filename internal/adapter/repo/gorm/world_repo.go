package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tileworld/internal/adapter/codec"
	"tileworld/internal/adapter/repo/gorm/model"
	"tileworld/internal/app/ports"
	"tileworld/internal/domain/agent"
	"tileworld/internal/domain/inventory"
	"tileworld/internal/domain/survival"
	"tileworld/internal/domain/world"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorldRepo struct {
	db *gorm.DB
}

func NewWorldRepo(db *gorm.DB) WorldRepo {
	return WorldRepo{db: db}
}

func (r WorldRepo) LoadWorld(ctx context.Context, worldID, memberID string) (ports.LoadedWorld, error) {
	db := conn(ctx, r.db)
	var row model.World
	if err := db.Where("world_id = ?", worldID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LoadedWorld{}, ports.ErrNotFound
		}
		return ports.LoadedWorld{}, err
	}
	m, err := codec.DecodeMap(row.MapBlob)
	if err != nil {
		return ports.LoadedWorld{}, err
	}

	var ids []string
	if err := db.Model(&model.WorldResource{}).Where("world_id = ?", worldID).Order("resource_id").Pluck("resource_id", &ids).Error; err != nil {
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

	out := ports.LoadedWorld{
		WorldID: worldID,
		Map:     m,
		Catalog: catalog,
		Settings: agent.Settings{
			NPCEnabled:      row.NpcEnabled,
			NPCCount:        int(row.NpcCount),
			StrangerEnabled: row.StrangerEnabled,
			StrangerDensity: row.StrangerDensity,
		},
		CreatedAt: row.CreatedAt,
	}
	if err := db.Model(&model.PlayerState{}).Where("world_id = ?", worldID).Order("member_id").Pluck("member_id", &out.Members).Error; err != nil {
		return ports.LoadedWorld{}, err
	}

	var player model.PlayerState
	err = db.Where("world_id = ? AND member_id = ?", worldID, memberID).First(&player).Error
	switch {
	case err == nil:
		state, err := playerFromRow(player)
		if err != nil {
			return ports.LoadedWorld{}, err
		}
		out.Player = &state
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return ports.LoadedWorld{}, err
	}
	return out, nil
}

func (r WorldRepo) CreateWorld(ctx context.Context, w ports.LoadedWorld) error {
	blob, err := codec.EncodeMap(w.Map)
	if err != nil {
		return err
	}
	row := model.World{
		WorldID:         w.WorldID,
		Width:           int32(w.Map.Width),
		Height:          int32(w.Map.Height),
		MapBlob:         blob,
		NpcEnabled:      w.Settings.NPCEnabled,
		NpcCount:        int32(w.Settings.NPCCount),
		StrangerEnabled: w.Settings.StrangerEnabled,
		StrangerDensity: w.Settings.StrangerDensity,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       time.Now(),
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
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
	return r.update(ctx, worldID, map[string]any{
		"map_blob":   blob,
		"width":      int32(m.Width),
		"height":     int32(m.Height),
		"updated_at": time.Now(),
	})
}

func (r WorldRepo) SaveSettings(ctx context.Context, worldID string, s agent.Settings) error {
	return r.update(ctx, worldID, map[string]any{
		"npc_enabled":      s.NPCEnabled,
		"npc_count":        int32(s.NPCCount),
		"stranger_enabled": s.StrangerEnabled,
		"stranger_density": s.StrangerDensity,
		"updated_at":       time.Now(),
	})
}

func (r WorldRepo) update(ctx context.Context, worldID string, updates map[string]any) error {
	res := conn(ctx, r.db).Model(&model.World{}).Where("world_id = ?", worldID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r WorldRepo) SavePlayerState(ctx context.Context, worldID string, s survival.PlayerState) error {
	row, err := playerToRow(worldID, s)
	if err != nil {
		return err
	}
	err = conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "world_id"}, {Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"x", "y", "inventory", "coins", "user_color", "health", "xp", "sovereignty", "areas", "decay_hours", "updated_at",
		}),
	}).Create(&row).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ports.ErrNotFound
	}
	return err
}

func playerToRow(worldID string, s survival.PlayerState) (model.PlayerState, error) {
	inv, err := json.Marshal(s.Inventory)
	if err != nil {
		return model.PlayerState{}, fmt.Errorf("marshal inventory: %w", err)
	}
	areas := s.Areas
	if areas == nil {
		areas = []survival.Area{}
	}
	rawAreas, err := json.Marshal(areas)
	if err != nil {
		return model.PlayerState{}, fmt.Errorf("marshal areas: %w", err)
	}
	updatedAt := s.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return model.PlayerState{
		WorldID:     worldID,
		MemberID:    s.MemberID,
		X:           int32(s.Position.X),
		Y:           int32(s.Position.Y),
		Inventory:   string(inv),
		Coins:       int32(s.Coins),
		UserColor:   s.UserColor,
		Health:      int32(s.Health),
		Xp:          int32(s.XP),
		Sovereignty: s.Sovereignty,
		Areas:       string(rawAreas),
		DecayHours:  s.DecayHours,
		UpdatedAt:   updatedAt,
	}, nil
}

func playerFromRow(row model.PlayerState) (survival.PlayerState, error) {
	var inv inventory.Inventory
	if err := json.Unmarshal([]byte(row.Inventory), &inv); err != nil {
		return survival.PlayerState{}, fmt.Errorf("%w: inventory: %v", ports.ErrCorrupt, err)
	}
	var areas []survival.Area
	if row.Areas != "" {
		if err := json.Unmarshal([]byte(row.Areas), &areas); err != nil {
			return survival.PlayerState{}, fmt.Errorf("%w: areas: %v", ports.ErrCorrupt, err)
		}
	}
	return survival.PlayerState{
		MemberID:    row.MemberID,
		Position:    world.Point{X: int(row.X), Y: int(row.Y)},
		Inventory:   inv,
		Coins:       int(row.Coins),
		UserColor:   row.UserColor,
		Health:      int(row.Health),
		XP:          int(row.Xp),
		Sovereignty: row.Sovereignty,
		Areas:       areas,
		DecayHours:  row.DecayHours,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
