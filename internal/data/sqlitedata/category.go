package sqlitedata

import (
	"context"
	"fmt"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type categoryData struct{ *Store }

func (d *categoryData) Add(ctx context.Context, cat *models.Category) error {
	doc, err := d.ser.Marshal(cat)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO category (id, web_log_id, data) VALUES (?, ?, ?)`,
		cat.ID, cat.WebLogID, doc)
	if isUniqueViolation(err) {
		return fmt.Errorf("category %s: %w", cat.ID, data.ErrConflict)
	}
	return err
}

func (d *categoryData) CountAll(ctx context.Context, webLogID models.WebLogID) (int, error) {
	return count(ctx, d.Store, `SELECT COUNT(*) FROM category WHERE web_log_id = ?`, webLogID)
}

func (d *categoryData) CountTopLevel(ctx context.Context, webLogID models.WebLogID) (int, error) {
	return count(ctx, d.Store, `
		SELECT COUNT(*) FROM category
		WHERE web_log_id = ? AND json_extract(data, '$.parentId') IS NULL`, webLogID)
}

func (d *categoryData) Delete(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (bool, error) {
	cat, err := d.FindByID(ctx, id, webLogID)
	if err != nil {
		return false, err
	}
	if cat == nil {
		return false, fmt.Errorf("category %s: %w", id, data.ErrNotFound)
	}

	// Children move up to the deleted category's own parent.
	children, err := findDocs[models.Category](ctx, d.Store, `
		SELECT data FROM category
		WHERE web_log_id = ? AND json_extract(data, '$.parentId') = ?`, webLogID, id)
	if err != nil {
		return false, err
	}
	for i := range children {
		children[i].ParentID = cat.ParentID
		if err := d.Update(ctx, &children[i]); err != nil {
			return false, err
		}
	}

	// The id lives inside each post's category array; no referential
	// action covers it, so strip it post by post before the row goes.
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = ?
		  AND EXISTS (SELECT 1 FROM json_each(post.data, '$.categoryIds') WHERE value = ?)`,
		webLogID, id)
	if err != nil {
		return false, err
	}
	for i := range posts {
		kept := posts[i].CategoryIDs[:0]
		for _, catID := range posts[i].CategoryIDs {
			if catID != id {
				kept = append(kept, catID)
			}
		}
		posts[i].CategoryIDs = kept
		doc, err := d.ser.Marshal(&posts[i])
		if err != nil {
			return false, err
		}
		if _, err := d.db.ExecContext(ctx,
			`UPDATE post SET data = ? WHERE id = ?`, doc, posts[i].ID); err != nil {
			return false, err
		}
	}

	_, err = d.db.ExecContext(ctx, `DELETE FROM category WHERE id = ?`, id)
	return len(children) > 0, err
}

func (d *categoryData) FindAllForView(ctx context.Context, webLogID models.WebLogID) ([]models.DisplayCategory, error) {
	cats, err := d.FindByWebLog(ctx, webLogID)
	if err != nil {
		return nil, err
	}
	return data.BuildHierarchy(ctx, cats, func(ctx context.Context, catIDs []models.CategoryID) (int, error) {
		args := []any{webLogID, models.Published}
		for _, catID := range catIDs {
			args = append(args, catID)
		}
		return count(ctx, d.Store, `
			SELECT COUNT(DISTINCT id) FROM post
			WHERE web_log_id = ? AND status = ?
			  AND EXISTS (SELECT 1 FROM json_each(post.data, '$.categoryIds')
			              WHERE value IN (`+placeholders(len(catIDs))+`))`, args...)
	})
}

func (d *categoryData) FindByID(ctx context.Context, id models.CategoryID, webLogID models.WebLogID) (*models.Category, error) {
	return findDoc[models.Category](ctx, d.Store,
		`SELECT data FROM category WHERE id = ? AND web_log_id = ?`, id, webLogID)
}

func (d *categoryData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Category, error) {
	return findDocs[models.Category](ctx, d.Store, `
		SELECT data FROM category WHERE web_log_id = ?
		ORDER BY LOWER(json_extract(data, '$.name'))`, webLogID)
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
		`UPDATE category SET data = ? WHERE id = ? AND web_log_id = ?`,
		doc, cat.ID, cat.WebLogID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", cat.ID, data.ErrNotFound)
	}
	return nil
}
