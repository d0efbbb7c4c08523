package relationaldata

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type tagMapData struct{ *Store }

func (d *tagMapData) Delete(ctx context.Context, id models.TagMapID, webLogID models.WebLogID) (bool, error) {
	res := d.db.WithContext(ctx).
		Where("id = ? AND web_log_id = ?", id, webLogID).Delete(&tagMapRow{})
	return res.RowsAffected > 0, res.Error
}

func (d *tagMapData) findOne(ctx context.Context, query string, args ...any) (*models.TagMap, error) {
	var row tagMapRow
	err := d.db.WithContext(ctx).First(&row, append([]any{query}, args...)...).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	tagMap := row.toModel()
	return &tagMap, nil
}

func (d *tagMapData) FindByID(ctx context.Context, id models.TagMapID, webLogID models.WebLogID) (*models.TagMap, error) {
	return d.findOne(ctx, "id = ? AND web_log_id = ?", id, webLogID)
}

func (d *tagMapData) FindByURLValue(ctx context.Context, urlValue string, webLogID models.WebLogID) (*models.TagMap, error) {
	return d.findOne(ctx, "web_log_id = ? AND url_value = ?", webLogID, urlValue)
}

func tagMapsToModels(rows []tagMapRow) []models.TagMap {
	tagMaps := make([]models.TagMap, len(rows))
	for i := range rows {
		tagMaps[i] = rows[i].toModel()
	}
	return tagMaps
}

func (d *tagMapData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.TagMap, error) {
	var rows []tagMapRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).Order("tag").Find(&rows).Error
	return tagMapsToModels(rows), err
}

func (d *tagMapData) FindMappingForTags(ctx context.Context, tags []string, webLogID models.WebLogID) ([]models.TagMap, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	var rows []tagMapRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ? AND tag IN ?", webLogID, tags).Find(&rows).Error
	return tagMapsToModels(rows), err
}

func (d *tagMapData) Restore(ctx context.Context, tagMaps []models.TagMap) error {
	return data.InBatches(tagMaps, data.RestoreBatchSize, func(batch []models.TagMap) error {
		for i := range batch {
			if err := d.Save(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *tagMapData) Save(ctx context.Context, tagMap *models.TagMap) error {
	row := tagMapRow{
		ID:       string(tagMap.ID),
		WebLogID: string(tagMap.WebLogID),
		Tag:      tagMap.Tag,
		URLValue: tagMap.URLValue,
	}
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if isConflict(err) {
		return fmt.Errorf("tag mapping %s: %w", tagMap.Tag, data.ErrConflict)
	}
	return err
}
