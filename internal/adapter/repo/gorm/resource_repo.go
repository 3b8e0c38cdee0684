package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tileworld/internal/adapter/repo/gorm/model"
	"tileworld/internal/app/ports"
	"tileworld/internal/domain/world"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourceRepo stores catalog entries shared by all worlds.
type ResourceRepo struct {
	db *gorm.DB
}

func NewResourceRepo(db *gorm.DB) ResourceRepo {
	return ResourceRepo{db: db}
}

func (r ResourceRepo) GetResources(ctx context.Context, ids []string) ([]world.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []model.Resource
	if err := conn(ctx, r.db).Where("resource_id IN ?", ids).Order("resource_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]world.Resource, 0, len(rows))
	for _, row := range rows {
		var res world.Resource
		if err := json.Unmarshal([]byte(row.Body), &res); err != nil {
			return nil, fmt.Errorf("%w: resource %s: %v", ports.ErrCorrupt, row.ResourceID, err)
		}
		out = append(out, res)
	}
	return out, nil
}

func (r ResourceRepo) PutResource(ctx context.Context, res world.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal resource: %w", err)
	}
	row := model.Resource{ResourceID: res.ID, Body: string(body), UpdatedAt: time.Now()}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resource_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
}

func (r ResourceRepo) LinkResources(ctx context.Context, worldID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows := make([]model.WorldResource, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, model.WorldResource{WorldID: worldID, ResourceID: id})
	}
	err := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ports.ErrNotFound
	}
	return err
}

func (r ResourceRepo) UnlinkResource(ctx context.Context, worldID, resourceID string) error {
	return conn(ctx, r.db).
		Where("world_id = ? AND resource_id = ?", worldID, resourceID).
		Delete(&model.WorldResource{}).Error
}
