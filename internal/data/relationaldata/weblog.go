package relationaldata

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type webLogData struct{ *Store }

func (d *webLogData) Add(ctx context.Context, webLog *models.WebLog) error {
	row := webLogToRow(webLog)
	err := d.db.WithContext(ctx).Create(&row).Error
	if isConflict(err) {
		return fmt.Errorf("web log %s: %w", webLog.URLBase, data.ErrConflict)
	}
	return err
}

func (d *webLogData) All(ctx context.Context) ([]models.WebLog, error) {
	var rows []webLogRow
	err := d.db.WithContext(ctx).Order("name").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	webLogs := make([]models.WebLog, len(rows))
	for i := range rows {
		webLogs[i] = rows[i].toModel()
	}
	return webLogs, nil
}

// Delete removes the web log and everything it owns in one transaction,
// dependents first.
func (d *webLogData) Delete(ctx context.Context, webLogID models.WebLogID) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&postRow{}).Select("id").Where("web_log_id = ?", webLogID)
		pageIDs := tx.Model(&pageRow{}).Select("id").Where("web_log_id = ?", webLogID)
		byPost := []any{
			&commentRow{}, &postPermalinkRow{}, &postRevisionRow{},
			&postCategoryRow{}, &postTagRow{},
		}
		for _, child := range byPost {
			if err := tx.Where("post_id IN (?)", postIDs).Delete(child).Error; err != nil {
				return err
			}
		}
		for _, child := range []any{&pagePermalinkRow{}, &pageRevisionRow{}} {
			if err := tx.Where("page_id IN (?)", pageIDs).Delete(child).Error; err != nil {
				return err
			}
		}
		owned := []any{
			&postRow{}, &pageRow{}, &categoryRow{}, &tagMapRow{},
			&uploadRow{}, &webLogUserRow{},
		}
		for _, child := range owned {
			if err := tx.Where("web_log_id = ?", webLogID).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", webLogID).Delete(&webLogRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("web log %s: %w", webLogID, data.ErrNotFound)
		}
		return nil
	})
}

func (d *webLogData) findOne(ctx context.Context, query string, args ...any) (*models.WebLog, error) {
	var row webLogRow
	err := d.db.WithContext(ctx).First(&row, append([]any{query}, args...)...).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	webLog := row.toModel()
	return &webLog, nil
}

func (d *webLogData) FindByHost(ctx context.Context, url string) (*models.WebLog, error) {
	return d.findOne(ctx, "url_base = ?", url)
}

func (d *webLogData) FindByID(ctx context.Context, webLogID models.WebLogID) (*models.WebLog, error) {
	return d.findOne(ctx, "id = ?", webLogID)
}

func (d *webLogData) update(ctx context.Context, webLog *models.WebLog, columns ...string) error {
	row := webLogToRow(webLog)
	res := d.db.WithContext(ctx).Model(&webLogRow{}).
		Where("id = ?", webLog.ID).
		Select(columns).
		Updates(&row)
	if res.Error != nil {
		if isConflict(res.Error) {
			return fmt.Errorf("web log %s: %w", webLog.URLBase, data.ErrConflict)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("web log %s: %w", webLog.ID, data.ErrNotFound)
	}
	return nil
}

func (d *webLogData) UpdateRedirectRules(ctx context.Context, webLog *models.WebLog) error {
	return d.update(ctx, webLog, "Redirects")
}

func (d *webLogData) UpdateRssOptions(ctx context.Context, webLog *models.WebLog) error {
	return d.update(ctx, webLog, "Rss")
}

func (d *webLogData) UpdateSettings(ctx context.Context, webLog *models.WebLog) error {
	return d.update(ctx, webLog, "Name", "Slug", "Subtitle", "DefaultPage",
		"PostsPerPage", "ThemeID", "URLBase", "TimeZone", "AutoHtmx", "Uploads")
}
