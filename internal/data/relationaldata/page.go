package relationaldata

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type pageData struct{ *Store }

func pageRevisionRows(page *models.Page) []pageRevisionRow {
	rows := make([]pageRevisionRow, len(page.Revisions))
	for i, rev := range page.Revisions {
		rows[i] = pageRevisionRow{
			PageID:     string(page.ID),
			AsOf:       rev.AsOf,
			SourceType: rev.Text.SourceType,
			Text:       rev.Text.Text,
		}
	}
	return rows
}

func pagePermalinkRows(page *models.Page) []pagePermalinkRow {
	rows := make([]pagePermalinkRow, len(page.PriorPermalinks))
	for i, link := range page.PriorPermalinks {
		rows[i] = pagePermalinkRow{PageID: string(page.ID), Permalink: link}
	}
	return rows
}

func (d *pageData) insert(tx *gorm.DB, page *models.Page) error {
	row := pageToRow(page)
	if err := tx.Create(&row).Error; err != nil {
		if isConflict(err) {
			return fmt.Errorf("page %s: %w", page.ID, data.ErrConflict)
		}
		return err
	}
	if links := pagePermalinkRows(page); len(links) > 0 {
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	if revs := pageRevisionRows(page); len(revs) > 0 {
		if err := tx.Create(&revs).Error; err != nil {
			return err
		}
	}
	return nil
}

func (d *pageData) Add(ctx context.Context, page *models.Page) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return d.insert(tx, page)
	})
}

// attachPageChildren loads prior permalinks and revisions for the given
// pages in two queries, insertion order preserved.
func (d *pageData) attachPageChildren(ctx context.Context, pages []models.Page) error {
	if len(pages) == 0 {
		return nil
	}
	ids := make([]string, len(pages))
	byID := make(map[string]*models.Page, len(pages))
	for i := range pages {
		ids[i] = string(pages[i].ID)
		byID[ids[i]] = &pages[i]
	}
	var links []pagePermalinkRow
	if err := d.db.WithContext(ctx).
		Where("page_id IN ?", ids).Order("id").Find(&links).Error; err != nil {
		return err
	}
	for _, link := range links {
		page := byID[link.PageID]
		page.PriorPermalinks = append(page.PriorPermalinks, link.Permalink)
	}
	var revs []pageRevisionRow
	if err := d.db.WithContext(ctx).
		Where("page_id IN ?", ids).Order("id").Find(&revs).Error; err != nil {
		return err
	}
	for _, rev := range revs {
		page := byID[rev.PageID]
		page.Revisions = append(page.Revisions, models.Revision{
			AsOf: rev.AsOf,
			Text: models.MarkupText{SourceType: rev.SourceType, Text: rev.Text},
		})
	}
	return nil
}

func pagesToModels(rows []pageRow) []models.Page {
	pages := make([]models.Page, len(rows))
	for i := range rows {
		pages[i] = rows[i].toModel()
	}
	return pages
}

func (d *pageData) All(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error) {
	var rows []pageRow
	err := d.db.WithContext(ctx).
		Omit("Text", "Metadata").
		Where("web_log_id = ?", webLogID).
		Order("LOWER(title)").
		Find(&rows).Error
	return pagesToModels(rows), err
}

func (d *pageData) CountAll(ctx context.Context, webLogID models.WebLogID) (int, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&pageRow{}).
		Where("web_log_id = ?", webLogID).Count(&n).Error
	return int(n), err
}

func (d *pageData) CountListed(ctx context.Context, webLogID models.WebLogID) (int, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&pageRow{}).
		Where("web_log_id = ? AND is_in_page_list", webLogID).Count(&n).Error
	return int(n), err
}

func (d *pageData) Delete(ctx context.Context, id models.PageID, webLogID models.WebLogID) (bool, error) {
	deleted := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND web_log_id = ?", id, webLogID).Delete(&pageRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := tx.Where("page_id = ?", id).Delete(&pagePermalinkRow{}).Error; err != nil {
			return err
		}
		return tx.Where("page_id = ?", id).Delete(&pageRevisionRow{}).Error
	})
	return deleted, err
}

func (d *pageData) FindByID(ctx context.Context, id models.PageID, webLogID models.WebLogID) (*models.Page, error) {
	var row pageRow
	err := d.db.WithContext(ctx).
		First(&row, "id = ? AND web_log_id = ?", id, webLogID).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	page := row.toModel()
	return &page, nil
}

func (d *pageData) FindByPermalink(ctx context.Context, permalink string, webLogID models.WebLogID) (*models.Page, error) {
	var row pageRow
	err := d.db.WithContext(ctx).
		First(&row, "web_log_id = ? AND permalink = ?", webLogID, permalink).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	page := row.toModel()
	return &page, nil
}

func (d *pageData) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogID models.WebLogID) (string, error) {
	if len(permalinks) == 0 {
		return "", nil
	}
	var current string
	err := d.db.WithContext(ctx).Model(&pageRow{}).
		Select("page.permalink").
		Joins("JOIN page_permalink pp ON pp.page_id = page.id").
		Where("page.web_log_id = ? AND pp.permalink IN ?", webLogID, permalinks).
		Limit(1).
		Scan(&current).Error
	return current, err
}

func (d *pageData) FindFullByID(ctx context.Context, id models.PageID, webLogID models.WebLogID) (*models.Page, error) {
	page, err := d.FindByID(ctx, id, webLogID)
	if page == nil || err != nil {
		return nil, err
	}
	pages := []models.Page{*page}
	if err := d.attachPageChildren(ctx, pages); err != nil {
		return nil, err
	}
	return &pages[0], nil
}

func (d *pageData) FindFullByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error) {
	var rows []pageRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	pages := pagesToModels(rows)
	if err := d.attachPageChildren(ctx, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (d *pageData) FindListed(ctx context.Context, webLogID models.WebLogID) ([]models.Page, error) {
	var rows []pageRow
	err := d.db.WithContext(ctx).
		Omit("Text").
		Where("web_log_id = ? AND is_in_page_list", webLogID).
		Order("LOWER(title)").
		Find(&rows).Error
	return pagesToModels(rows), err
}

func (d *pageData) FindPageOfPages(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Page, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	var rows []pageRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).
		Order("LOWER(title)").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	pages := pagesToModels(rows)
	for i := range pages {
		pages[i].Metadata = nil
	}
	return pages, err
}

func (d *pageData) Restore(ctx context.Context, pages []models.Page) error {
	return data.InBatches(pages, data.RestoreBatchSize, func(batch []models.Page) error {
		return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for i := range batch {
				if err := d.insert(tx, &batch[i]); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func (d *pageData) Update(ctx context.Context, page *models.Page) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := pageToRow(page)
		res := tx.Model(&pageRow{}).
			Where("id = ? AND web_log_id = ?", page.ID, page.WebLogID).
			Select("AuthorID", "Title", "Permalink", "PublishedOn", "UpdatedOn",
				"IsInPageList", "Template", "Text", "Metadata").
			Updates(&row)
		if res.Error != nil {
			if isConflict(res.Error) {
				return fmt.Errorf("page %s: %w", page.ID, data.ErrConflict)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("page %s: %w", page.ID, data.ErrNotFound)
		}
		if err := tx.Where("page_id = ?", page.ID).Delete(&pageRevisionRow{}).Error; err != nil {
			return err
		}
		if revs := pageRevisionRows(page); len(revs) > 0 {
			return tx.Create(&revs).Error
		}
		return nil
	})
}

func (d *pageData) UpdatePriorPermalinks(ctx context.Context, id models.PageID, webLogID models.WebLogID, permalinks []string) (bool, error) {
	page, err := d.FindByID(ctx, id, webLogID)
	if page == nil || err != nil {
		return false, err
	}
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).Delete(&pagePermalinkRow{}).Error; err != nil {
			return err
		}
		rows := make([]pagePermalinkRow, len(permalinks))
		for i, link := range permalinks {
			rows[i] = pagePermalinkRow{PageID: string(id), Permalink: link}
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	return err == nil, err
}
