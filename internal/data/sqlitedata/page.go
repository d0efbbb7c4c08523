package sqlitedata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type pageData struct{ *Store }

func (d *pageData) insert(ctx context.Context, page *models.Page) error {
	doc, err := d.ser.Marshal(page)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO page (id, web_log_id, author_id, data) VALUES (?, ?, ?, ?)`,
		page.ID, page.WebLogID, page.AuthorID, doc)
	if isUniqueViolation(err) {
		return fmt.Errorf("page %s: %w", page.ID, data.ErrConflict)
	}
	return err
}

func (d *pageData) Add(ctx context.Context, page *models.Page) error {
	return d.insert(ctx, page)
}

// forList drops the fields page listings never need.
func forList(pages []models.Page) []models.Page {
	for i := range pages {
		pages[i].Text = ""
		pages[i].Metadata = nil
		pages[i].PriorPermalinks = nil
		pages[i].Revisions = nil
	}
	return pages
}

func (d *pageData) All(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error) {
	pages, err := findDocs[models.Page](ctx, d.Store, `
		SELECT data FROM page WHERE web_log_id = ?
		ORDER BY LOWER(json_extract(data, '$.title'))`, webLogID)
	return forList(pages), err
}

func (d *pageData) CountAll(ctx context.Context, webLogID models.WebLogID) (int, error) {
	return count(ctx, d.Store, `SELECT COUNT(*) FROM page WHERE web_log_id = ?`, webLogID)
}

func (d *pageData) CountListed(ctx context.Context, webLogID models.WebLogID) (int, error) {
	return count(ctx, d.Store, `
		SELECT COUNT(*) FROM page
		WHERE web_log_id = ? AND json_extract(data, '$.isInPageList')`, webLogID)
}

func (d *pageData) Delete(ctx context.Context, id models.PageID, webLogID models.WebLogID) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM page WHERE id = ? AND web_log_id = ?`, id, webLogID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (d *pageData) FindByID(ctx context.Context, id models.PageID, webLogID models.WebLogID) (*models.Page, error) {
	page, err := d.FindFullByID(ctx, id, webLogID)
	if page != nil {
		page.PriorPermalinks = nil
		page.Revisions = nil
	}
	return page, err
}

func (d *pageData) FindByPermalink(ctx context.Context, permalink string, webLogID models.WebLogID) (*models.Page, error) {
	return findDoc[models.Page](ctx, d.Store, `
		SELECT data FROM page
		WHERE web_log_id = ? AND json_extract(data, '$.permalink') = ?`,
		webLogID, permalink)
}

func (d *pageData) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogID models.WebLogID) (string, error) {
	if len(permalinks) == 0 {
		return "", nil
	}
	args := []any{webLogID}
	for _, link := range permalinks {
		args = append(args, link)
	}
	var current string
	err := d.db.QueryRowContext(ctx, `
		SELECT json_extract(data, '$.permalink') FROM page
		WHERE web_log_id = ?
		  AND EXISTS (SELECT 1 FROM json_each(page.data, '$.priorPermalinks')
		              WHERE value IN (`+placeholders(len(permalinks))+`))
		LIMIT 1`, args...).Scan(&current)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return current, err
}

func (d *pageData) FindFullByID(ctx context.Context, id models.PageID, webLogID models.WebLogID) (*models.Page, error) {
	return findDoc[models.Page](ctx, d.Store,
		`SELECT data FROM page WHERE id = ? AND web_log_id = ?`, id, webLogID)
}

func (d *pageData) FindFullByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error) {
	return findDocs[models.Page](ctx, d.Store,
		`SELECT data FROM page WHERE web_log_id = ?`, webLogID)
}

func (d *pageData) FindListed(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error) {
	pages, err := findDocs[models.Page](ctx, d.Store, `
		SELECT data FROM page
		WHERE web_log_id = ? AND json_extract(data, '$.isInPageList')
		ORDER BY LOWER(json_extract(data, '$.title'))`, webLogID)
	return forList(pages), err
}

func (d *pageData) FindPageOfPages(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Page, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	pages, err := findDocs[models.Page](ctx, d.Store, `
		SELECT data FROM page WHERE web_log_id = ?
		ORDER BY LOWER(json_extract(data, '$.title'))
		LIMIT ? OFFSET ?`, webLogID, limit, offset)
	for i := range pages {
		pages[i].Metadata = nil
		pages[i].PriorPermalinks = nil
		pages[i].Revisions = nil
	}
	return pages, err
}

func (d *pageData) Restore(ctx context.Context, pages []models.Page) error {
	return data.InBatches(pages, data.RestoreBatchSize, func(batch []models.Page) error {
		for i := range batch {
			if err := d.insert(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *pageData) Update(ctx context.Context, page *models.Page) error {
	doc, err := d.ser.Marshal(page)
	if err != nil {
		return err
	}
	// Prior permalinks are owned by UpdatePriorPermalinks; carry the
	// stored list into the incoming document.
	res, err := d.db.ExecContext(ctx, `
		UPDATE page SET author_id = ?,
		       data = json_set(json(?), '$.priorPermalinks',
		                       json_extract(data, '$.priorPermalinks'))
		WHERE id = ? AND web_log_id = ?`,
		page.AuthorID, string(doc), page.ID, page.WebLogID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("page %s: %w", page.ID, data.ErrConflict)
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("page %s: %w", page.ID, data.ErrNotFound)
	}
	return nil
}

func (d *pageData) UpdatePriorPermalinks(ctx context.Context, id models.PageID, webLogID models.WebLogID, permalinks []string) (bool, error) {
	links, err := d.ser.Marshal(permalinks)
	if err != nil {
		return false, err
	}
	res, err := d.db.ExecContext(ctx, `
		UPDATE page SET data = json_set(data, '$.priorPermalinks', json(?))
		WHERE id = ? AND web_log_id = ?`, string(links), id, webLogID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
