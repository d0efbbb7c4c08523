package relationaldata

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type categoryData struct{ *Store }

func (d *categoryData) Add(ctx context.Context, cat *models.Category) error {
	row := categoryToRow(cat)
	err := d.db.WithContext(ctx).Create(&row).Error
	if isConflict(err) {
		return fmt.Errorf("category %s: %w", cat.ID, data.ErrConflict)
	}
	return err
}

func (d *categoryData) CountAll(ctx context.Context, webLogID models.WebLogID) (int, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&categoryRow{}).
		Where("web_log_id = ?", webLogID).Count(&n).Error
	return int(n), err
}

func (d *categoryData) CountTopLevel(ctx context.Context, webLogID models.WebLogID) (int, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&categoryRow{}).
		Where("web_log_id = ? AND parent_id IS NULL", webLogID).Count(&n).Error
	return int(n), err
}

func (d *categoryData) Delete(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (bool, error) {
	cat, err := d.FindByID(ctx, id, webLogID)
	if err != nil {
		return false, err
	}
	if cat == nil {
		return false, fmt.Errorf("category %s: %w", id, data.ErrNotFound)
	}
	reassigned := false
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children move up to the deleted category's own parent.
		var parent any
		if cat.ParentID != nil {
			parent = string(*cat.ParentID)
		}
		res := tx.Model(&categoryRow{}).
			Where("web_log_id = ? AND parent_id = ?", webLogID, id).
			Update("parent_id", parent)
		if res.Error != nil {
			return res.Error
		}
		reassigned = res.RowsAffected > 0
		if err := tx.Where("category_id = ?", id).
			Delete(&postCategoryRow{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&categoryRow{}).Error
	})
	return reassigned, err
}

func (d *categoryData) FindAllForView(ctx context.Context, webLogID models.WebLogID) ([]models.DisplayCategory, error) {
	cats, err := d.FindByWebLog(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	return data.BuildHierarchy(ctx, cats, func(ctx context.Context, catIDs []models.CategoryID) (int, error) {
		var n int64
		err := d.db.WithContext(ctx).Model(&postRow{}).
			Distinct("post.id").
			Joins("JOIN post_category pc ON pc.post_id = post.id").
			Where("post.web_log_id = ? AND post.status = ? AND pc.category_id IN ?",
				webLogID, models.Published, catIDs).
			Count(&n).Error
		return int(n), err
	})
}

func (d *categoryData) FindByID(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (*models.Category, error) {
	var row categoryRow
	err := d.db.WithContext(ctx).
		First(&row, "id = ? AND web_log_id = ?", id, webLogID).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	cat := row.toModel()
	return &cat, nil
}

func (d *categoryData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Category, error) {
	var rows []categoryRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).
		Order("LOWER(name)").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	cats := make([]models.Category, len(rows))
	for i := range rows {
		cats[i] = rows[i].toModel()
	}
	return cats, nil
}

func (d *categoryData) Restore(ctx context.Context, cats []models.Category) error {
	return data.InBatches(cats, data.RestoreBatchSize, func(batch []models.Category) error {
		rows := make([]categoryRow, len(batch))
		for i := range batch {
			rows[i] = categoryToRow(&batch[i])
		}
		err := d.db.WithContext(ctx).Create(&rows).Error
		if isConflict(err) {
			return fmt.Errorf("categories: %w", data.ErrConflict)
		}
		return err
	})
}

func (d *categoryData) Update(ctx context.Context, cat *models.Category) error {
	row := categoryToRow(cat)
	res := d.db.WithContext(ctx).Model(&categoryRow{}).
		Where("id = ? AND web_log_id = ?", cat.ID, cat.WebLogID).
		Select("Name", "Slug", "Description", "ParentID").
		Updates(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", cat.ID, data.ErrNotFound)
	}
	return nil
}
