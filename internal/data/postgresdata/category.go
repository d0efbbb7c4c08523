package postgresdata

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type categoryData struct{ *Store }

func catIDStrings(ids []models.CategoryID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func (d *categoryData) Add(ctx context.Context, cat *models.Category) error {
	doc, err := d.ser.Marshal(cat)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO category (id, web_log_id, data) VALUES ($1, $2, $3)`,
		cat.ID, cat.WebLogID, doc)
	if isUniqueViolation(err) {
		return fmt.Errorf("category %s: %w", cat.ID, data.ErrConflict)
	}
	return err
}

func (d *categoryData) CountAll(ctx context.Context, webLogID models.WebLogID) (int, error) {
	return count(ctx, d.Store,
		`SELECT COUNT(*) FROM category WHERE web_log_id = $1`, webLogID)
}

func (d *categoryData) CountTopLevel(ctx context.Context, webLogID models.WebLogID) (int, error) {
	return count(ctx, d.Store, `
		SELECT COUNT(*) FROM category
		WHERE web_log_id = $1 AND NOT data ? 'parentId'`, webLogID)
}

func (d *categoryData) Delete(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (bool, error) {
	cat, err := d.FindByID(ctx, id, webLogID)
	if err != nil {
		return false, err
	}
	if cat == nil {
		return false, fmt.Errorf("category %s: %w", id, data.ErrNotFound)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// Children move up to the deleted category's own parent.
	var children int64
	if cat.ParentID == nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE category SET data = data - 'parentId'
			WHERE web_log_id = $1 AND data ->> 'parentId' = $2`, webLogID, id)
		if err != nil {
			return false, err
		}
		children, _ = res.RowsAffected()
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE category SET data = jsonb_set(data, '{parentId}', to_jsonb($3::text))
			WHERE web_log_id = $1 AND data ->> 'parentId' = $2`, webLogID, id, *cat.ParentID)
		if err != nil {
			return false, err
		}
		children, _ = res.RowsAffected()
	}

	// Strip the id out of every post's category array before the row goes.
	if _, err := tx.ExecContext(ctx, `
		UPDATE post
		SET data = jsonb_set(data, '{categoryIds}',
			(data -> 'categoryIds') - $2)
		WHERE web_log_id = $1 AND data -> 'categoryIds' ? $2`, webLogID, string(id)); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM category WHERE id = $1`, id); err != nil {
		return false, err
	}
	return children > 0, tx.Commit()
}

func (d *categoryData) FindAllForView(ctx context.Context, webLogID models.WebLogID) ([]models.DisplayCategory, error) {
	cats, err := d.FindByWebLog(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	return data.BuildHierarchy(ctx, cats, func(ctx context.Context, catIDs []models.CategoryID) (int, error) {
		return count(ctx, d.Store, `
			SELECT COUNT(DISTINCT id) FROM post
			WHERE web_log_id = $1 AND status = $2
			  AND data -> 'categoryIds' ?| $3`,
			webLogID, models.Published, pq.Array(catIDStrings(catIDs)))
	})
}

func (d *categoryData) FindByID(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (*models.Category, error) {
	return findDoc[models.Category](ctx, d.Store,
		`SELECT data FROM category WHERE id = $1 AND web_log_id = $2`, id, webLogID)
}

func (d *categoryData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Category, error) {
	return findDocs[models.Category](ctx, d.Store, `
		SELECT data FROM category WHERE web_log_id = $1
		ORDER BY LOWER(data ->> 'name')`, webLogID)
}

func (d *categoryData) Restore(ctx context.Context, cats []models.Category) error {
	return data.InBatches(cats, data.RestoreBatchSize, func(batch []models.Category) error {
		for i := range batch {
			if err := d.Add(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *categoryData) Update(ctx context.Context, cat *models.Category) error {
	doc, err := d.ser.Marshal(cat)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx,
		`UPDATE category SET data = $1 WHERE id = $2 AND web_log_id = $3`,
		doc, cat.ID, cat.WebLogID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", cat.ID, data.ErrNotFound)
	}
	return nil
}
