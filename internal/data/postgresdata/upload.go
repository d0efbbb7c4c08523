package postgresdata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type uploadData struct{ *Store }

func (d *uploadData) Add(ctx context.Context, upload *models.Upload) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO upload (id, web_log_id, path, updated_on, data)
		VALUES ($1, $2, $3, $4, $5)`,
		upload.ID, upload.WebLogID, upload.Path, upload.UpdatedOn, upload.Data)
	if isUniqueViolation(err) {
		return fmt.Errorf("upload %s: %w", upload.Path, data.ErrConflict)
	}
	return err
}

func (d *uploadData) Delete(ctx context.Context, id models.UploadID, webLogID models.WebLogID) (string, error) {
	var path string
	err := d.db.QueryRowContext(ctx, `
		DELETE FROM upload WHERE id = $1 AND web_log_id = $2
		RETURNING path`, id, webLogID).Scan(&path)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("upload %s: %w", id, data.ErrNotFound)
	}
	return path, err
}

func (d *uploadData) scanUploads(rows *sql.Rows, withData bool) ([]models.Upload, error) {
	defer rows.Close()
	var uploads []models.Upload
	for rows.Next() {
		var up models.Upload
		dest := []any{&up.ID, &up.WebLogID, &up.Path, &up.UpdatedOn}
		if withData {
			dest = append(dest, &up.Data)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, rows.Err()
}

func (d *uploadData) FindByPath(ctx context.Context, path string, webLogID models.WebLogID) (*models.Upload, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, web_log_id, path, updated_on, data FROM upload
		WHERE web_log_id = $1 AND path = $2`, webLogID, path)
	if err != nil {
		return nil, err
	}
	uploads, err := d.scanUploads(rows, true)
	if err != nil || len(uploads) == 0 {
		return nil, err
	}
	return &uploads[0], nil
}

func (d *uploadData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Upload, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, web_log_id, path, updated_on FROM upload
		WHERE web_log_id = $1 ORDER BY path`, webLogID)
	if err != nil {
		return nil, err
	}
	return d.scanUploads(rows, false)
}

func (d *uploadData) FindByWebLogWithData(ctx context.Context, webLogID models.WebLogID) ([]models.Upload, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, web_log_id, path, updated_on, data FROM upload
		WHERE web_log_id = $1 ORDER BY path`, webLogID)
	if err != nil {
		return nil, err
	}
	return d.scanUploads(rows, true)
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
