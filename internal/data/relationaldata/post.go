package relationaldata

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type postData struct{ *Store }

func postRevisionRows(post *models.Post) []postRevisionRow {
	rows := make([]postRevisionRow, len(post.Revisions))
	for i, rev := range post.Revisions {
		rows[i] = postRevisionRow{
			PostID:     string(post.ID),
			AsOf:       rev.AsOf,
			SourceType: rev.Text.SourceType,
			Text:       rev.Text.Text,
		}
	}
	return rows
}

func postPermalinkRows(post *models.Post) []postPermalinkRow {
	rows := make([]postPermalinkRow, len(post.PriorPermalinks))
	for i, link := range post.PriorPermalinks {
		rows[i] = postPermalinkRow{PostID: string(post.ID), Permalink: link}
	}
	return rows
}

func postCategoryRows(post *models.Post) []postCategoryRow {
	rows := make([]postCategoryRow, len(post.CategoryIDs))
	for i, catID := range post.CategoryIDs {
		rows[i] = postCategoryRow{PostID: string(post.ID), CategoryID: string(catID)}
	}
	return rows
}

func postTagRows(post *models.Post) []postTagRow {
	rows := make([]postTagRow, len(post.Tags))
	for i, tag := range post.Tags {
		rows[i] = postTagRow{PostID: string(post.ID), Tag: tag}
	}
	return rows
}

func (d *postData) insert(tx *gorm.DB, post *models.Post) error {
	row := postToRow(post)
	if err := tx.Create(&row).Error; err != nil {
		if isConflict(err) {
			return fmt.Errorf("post %s: %w", post.ID, data.ErrConflict)
		}
		return err
	}
	if err := createAll(tx, postPermalinkRows(post)); err != nil {
		return err
	}
	if err := createAll(tx, postRevisionRows(post)); err != nil {
		return err
	}
	if err := createAll(tx, postCategoryRows(post)); err != nil {
		return err
	}
	return createAll(tx, postTagRows(post))
}

func (d *postData) Add(ctx context.Context, post *models.Post) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return d.insert(tx, post)
	})
}

func (d *postData) CountByStatus(ctx context.Context, status string, webLogID models.WebLogID) (int, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&postRow{}).
		Where("web_log_id = ? AND status = ?", webLogID, status).Count(&n).Error
	return int(n), err
}

// deletePostChildren removes every child row of one post inside tx.
func deletePostChildren(tx *gorm.DB, id models.PostID) error {
	for _, child := range []any{
		&commentRow{}, &postPermalinkRow{}, &postRevisionRow{},
		&postCategoryRow{}, &postTagRow{},
	} {
		if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}

func (d *postData) Delete(ctx context.Context, id models.PostID, webLogID models.WebLogID) (bool, error) {
	deleted := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND web_log_id = ?", id, webLogID).Delete(&postRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return deletePostChildren(tx, id)
	})
	return deleted, err
}

// attachPostLists loads categories and tags for the given posts; listings
// need those even when revisions and prior permalinks stay behind.
func (d *postData) attachPostLists(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for i := range posts {
		ids[i] = string(posts[i].ID)
		byID[ids[i]] = &posts[i]
	}
	var cats []postCategoryRow
	if err := d.db.WithContext(ctx).
		Where("post_id IN ?", ids).Find(&cats).Error; err != nil {
		return err
	}
	for _, cat := range cats {
		post := byID[cat.PostID]
		post.CategoryIDs = append(post.CategoryIDs, models.CategoryID(cat.CategoryID))
	}
	var tags []postTagRow
	if err := d.db.WithContext(ctx).
		Where("post_id IN ?", ids).Order("tag").Find(&tags).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		post := byID[tag.PostID]
		post.Tags = append(post.Tags, tag.Tag)
	}
	return nil
}

// attachPostChildren adds prior permalinks and revisions on top of the
// listing fields.
func (d *postData) attachPostChildren(ctx context.Context, posts []models.Post) error {
	if err := d.attachPostLists(ctx, posts); err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for i := range posts {
		ids[i] = string(posts[i].ID)
		byID[ids[i]] = &posts[i]
	}
	var links []postPermalinkRow
	if err := d.db.WithContext(ctx).
		Where("post_id IN ?", ids).Order("id").Find(&links).Error; err != nil {
		return err
	}
	for _, link := range links {
		post := byID[link.PostID]
		post.PriorPermalinks = append(post.PriorPermalinks, link.Permalink)
	}
	var revs []postRevisionRow
	if err := d.db.WithContext(ctx).
		Where("post_id IN ?", ids).Order("id").Find(&revs).Error; err != nil {
		return err
	}
	for _, rev := range revs {
		post := byID[rev.PostID]
		post.Revisions = append(post.Revisions, models.Revision{
			AsOf: rev.AsOf,
			Text: models.MarkupText{SourceType: rev.SourceType, Text: rev.Text},
		})
	}
	return nil
}

func postsToModels(rows []postRow) []models.Post {
	posts := make([]models.Post, len(rows))
	for i := range rows {
		posts[i] = rows[i].toModel()
	}
	return posts
}

func (d *postData) findOne(ctx context.Context, query string, args ...any) (*models.Post, error) {
	var row postRow
	err := d.db.WithContext(ctx).First(&row, append([]any{query}, args...)...).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	posts := []models.Post{row.toModel()}
	if err := d.attachPostLists(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (d *postData) FindByID(ctx context.Context, id models.PostID, webLogID models.WebLogID) (*models.Post, error) {
	return d.findOne(ctx, "id = ? AND web_log_id = ?", id, webLogID)
}

func (d *postData) FindByPermalink(ctx context.Context, permalink string, webLogID models.WebLogID) (*models.Post, error) {
	return d.findOne(ctx, "web_log_id = ? AND permalink = ?", webLogID, permalink)
}

func (d *postData) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogID models.WebLogID) (string, error) {
	if len(permalinks) == 0 {
		return "", nil
	}
	var current string
	err := d.db.WithContext(ctx).Model(&postRow{}).
		Select("post.permalink").
		Joins("JOIN post_permalink pp ON pp.post_id = post.id").
		Where("post.web_log_id = ? AND pp.permalink IN ?", webLogID, permalinks).
		Limit(1).
		Scan(&current).Error
	return current, err
}

func (d *postData) FindFullByID(ctx context.Context, id models.PostID, webLogID models.WebLogID) (*models.Post, error) {
	var row postRow
	err := d.db.WithContext(ctx).
		First(&row, "id = ? AND web_log_id = ?", id, webLogID).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	posts := []models.Post{row.toModel()}
	if err := d.attachPostChildren(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (d *postData) FindFullByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Post, error) {
	var rows []postRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	posts := postsToModels(rows)
	if err := d.attachPostChildren(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (d *postData) findPage(ctx context.Context, pageNbr, pageSize int, scope func(*gorm.DB) *gorm.DB) ([]models.Post, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	var rows []postRow
	err := scope(d.db.WithContext(ctx)).
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	posts := postsToModels(rows)
	if err := d.attachPostLists(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (d *postData) FindPageOfCategorizedPosts(ctx context.Context, webLogID models.WebLogID, catIDs []models.CategoryID, pageNbr, pageSize int) ([]models.Post, error) {
	if len(catIDs) == 0 {
		return nil, nil
	}
	return d.findPage(ctx, pageNbr, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.Model(&postRow{}).
			Distinct("post.*").
			Joins("JOIN post_category pc ON pc.post_id = post.id").
			Where("post.web_log_id = ? AND post.status = ? AND pc.category_id IN ?",
				webLogID, models.Published, catIDs).
			Order("post.published_on DESC")
	})
}

func (d *postData) FindPageOfPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error) {
	return d.findPage(ctx, pageNbr, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("web_log_id = ?", webLogID).
			Order("COALESCE(published_on, updated_on) DESC")
	})
}

func (d *postData) FindPageOfPublishedPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error) {
	return d.findPage(ctx, pageNbr, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.Where("web_log_id = ? AND status = ?", webLogID, models.Published).
			Order("published_on DESC")
	})
}

func (d *postData) FindPageOfTaggedPosts(ctx context.Context, webLogID models.WebLogID, tag string, pageNbr, pageSize int) ([]models.Post, error) {
	return d.findPage(ctx, pageNbr, pageSize, func(db *gorm.DB) *gorm.DB {
		return db.Model(&postRow{}).
			Joins("JOIN post_tag pt ON pt.post_id = post.id").
			Where("post.web_log_id = ? AND post.status = ? AND pt.tag = ?",
				webLogID, models.Published, tag).
			Order("post.published_on DESC")
	})
}

func (d *postData) FindSurroundingPosts(ctx context.Context, webLogID models.WebLogID, publishedOn time.Time) (older, newer *models.Post, err error) {
	surrounding := func(cmp, order string) (*models.Post, error) {
		var row postRow
		err := d.db.WithContext(ctx).
			Where("web_log_id = ? AND status = ? AND published_on "+cmp+" ?",
				webLogID, models.Published, publishedOn).
			Order("published_on " + order).
			First(&row).Error
		if err != nil {
			return nil, ignoreNotFound(err)
		}
		posts := []models.Post{row.toModel()}
		if err := d.attachPostLists(ctx, posts); err != nil {
			return nil, err
		}
		return &posts[0], nil
	}
	if older, err = surrounding("<", "DESC"); err != nil {
		return nil, nil, err
	}
	if newer, err = surrounding(">", "ASC"); err != nil {
		return nil, nil, err
	}
	return older, newer, nil
}

func (d *postData) Restore(ctx context.Context, posts []models.Post) error {
	return data.InBatches(posts, data.RestoreBatchSize, func(batch []models.Post) error {
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

func (d *postData) Update(ctx context.Context, post *models.Post) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := postToRow(post)
		res := tx.Model(&postRow{}).
			Where("id = ? AND web_log_id = ?", post.ID, post.WebLogID).
			Select("AuthorID", "Status", "Title", "Permalink", "PublishedOn",
				"UpdatedOn", "Template", "Text", "Episode", "Metadata").
			Updates(&row)
		if res.Error != nil {
			if isConflict(res.Error) {
				return fmt.Errorf("post %s: %w", post.ID, data.ErrConflict)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %s: %w", post.ID, data.ErrNotFound)
		}
		for _, child := range []any{&postPermalinkRow{}, &postRevisionRow{}, &postCategoryRow{}, &postTagRow{}} {
			if err := tx.Where("post_id = ?", post.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := createAll(tx, postPermalinkRows(post)); err != nil {
			return err
		}
		if err := createAll(tx, postRevisionRows(post)); err != nil {
			return err
		}
		if err := createAll(tx, postCategoryRows(post)); err != nil {
			return err
		}
		return createAll(tx, postTagRows(post))
	})
}

func (d *postData) UpdatePriorPermalinks(ctx context.Context, id models.PostID, webLogID models.WebLogID, permalinks []string) (bool, error) {
	post, err := d.FindByID(ctx, id, webLogID)
	if post == nil || err != nil {
		return false, err
	}
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&postPermalinkRow{}).Error; err != nil {
			return err
		}
		rows := make([]postPermalinkRow, len(permalinks))
		for i, link := range permalinks {
			rows[i] = postPermalinkRow{PostID: string(id), Permalink: link}
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	return err == nil, err
}
