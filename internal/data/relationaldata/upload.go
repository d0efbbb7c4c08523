package relationaldata

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type uploadData struct{ *Store }

func uploadsToModels(rows []uploadRow) []models.Upload {
	uploads := make([]models.Upload, len(rows))
	for i, row := range rows {
		uploads[i] = models.Upload{
			ID:        models.UploadID(row.ID),
			WebLogID:  models.WebLogID(row.WebLogID),
			Path:      row.Path,
			UpdatedOn: row.UpdatedOn,
			Data:      row.Data,
		}
	}
	return uploads
}

func (d *uploadData) Add(ctx context.Context, upload *models.Upload) error {
	row := uploadRow{
		ID:        string(upload.ID),
		WebLogID:  string(upload.WebLogID),
		Path:      upload.Path,
		UpdatedOn: upload.UpdatedOn,
		Data:      upload.Data,
	}
	err := d.db.WithContext(ctx).Create(&row).Error
	if isConflict(err) {
		return fmt.Errorf("upload %s: %w", upload.Path, data.ErrConflict)
	}
	return err
}

func (d *uploadData) Delete(ctx context.Context, id models.UploadID, webLogID models.WebLogID) (string, error) {
	var row uploadRow
	err := d.db.WithContext(ctx).Select("id", "path").
		First(&row, "id = ? AND web_log_id = ?", id, webLogID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("upload %s: %w", id, data.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if err := d.db.WithContext(ctx).Where("id = ?", id).Delete(&uploadRow{}).Error; err != nil {
		return "", err
	}
	return row.Path, nil
}

func (d *uploadData) FindByPath(ctx context.Context, path string, webLogID models.WebLogID) (*models.Upload, error) {
	var row uploadRow
	err := d.db.WithContext(ctx).
		First(&row, "web_log_id = ? AND path = ?", webLogID, path).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	upload := uploadsToModels([]uploadRow{row})[0]
	return &upload, nil
}

func (d *uploadData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Upload, error) {
	var rows []uploadRow
	err := d.db.WithContext(ctx).Omit("Data").
		Where("web_log_id = ?", webLogID).Order("path").Find(&rows).Error
	return uploadsToModels(rows), err
}

func (d *uploadData) FindByWebLogWithData(ctx context.Context, webLogID models.WebLogID) ([]models.Upload, error) {
	var rows []uploadRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).Order("path").Find(&rows).Error
	return uploadsToModels(rows), err
}

func (d *uploadData) Restore(ctx context.Context, uploads []models.Upload) error {
	return data.InBatches(uploads, data.RestoreBinaryBatchSize, func(batch []models.Upload) error {
		for i := range batch {
			if err := d.Add(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
