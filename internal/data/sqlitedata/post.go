package sqlitedata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type postData struct{ *Store }

// publishedExpr normalizes the stored RFC 3339 date for comparison and
// ordering; bare string comparison breaks once sub-second precision varies.
const publishedExpr = `datetime(json_extract(data, '$.publishedOn'))`

func (d *postData) insert(ctx context.Context, post *models.Post) error {
	doc, err := d.ser.Marshal(post)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO post (id, web_log_id, author_id, status, data)
		VALUES (?, ?, ?, ?, ?)`,
		post.ID, post.WebLogID, post.AuthorID, post.Status, doc)
	if isUniqueViolation(err) {
		return fmt.Errorf("post %s: %w", post.ID, data.ErrConflict)
	}
	return err
}

func (d *postData) Add(ctx context.Context, post *models.Post) error {
	return d.insert(ctx, post)
}

func (d *postData) CountByStatus(ctx context.Context, status string, webLogID models.WebLogID) (int, error) {
	return count(ctx, d.Store,
		`SELECT COUNT(*) FROM post WHERE web_log_id = ? AND status = ?`, webLogID, status)
}

func (d *postData) Delete(ctx context.Context, id models.PostID, webLogID models.WebLogID) (bool, error) {
	// Comments hang off the post; they go first.
	if _, err := d.db.ExecContext(ctx, `
		DELETE FROM comment WHERE post_id IN
			(SELECT id FROM post WHERE id = ? AND web_log_id = ?)`, id, webLogID); err != nil {
		return false, err
	}
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM post WHERE id = ? AND web_log_id = ?`, id, webLogID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (d *postData) FindByID(ctx context.Context, id models.PostID, webLogID models.WebLogID) (*models.Post, error) {
	post, err := d.FindFullByID(ctx, id, webLogID)
	if post != nil {
		post.PriorPermalinks = nil
		post.Revisions = nil
	}
	return post, err
}

func (d *postData) FindByPermalink(ctx context.Context, permalink string, webLogID models.WebLogID) (*models.Post, error) {
	return findDoc[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = ? AND json_extract(data, '$.permalink') = ?`,
		webLogID, permalink)
}

func (d *postData) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogID models.WebLogID) (string, error) {
	if len(permalinks) == 0 {
		return "", nil
	}
	args := []any{webLogID}
	for _, link := range permalinks {
		args = append(args, link)
	}
	var current string
	err := d.db.QueryRowContext(ctx, `
		SELECT json_extract(data, '$.permalink') FROM post
		WHERE web_log_id = ?
		  AND EXISTS (SELECT 1 FROM json_each(post.data, '$.priorPermalinks')
		              WHERE value IN (`+placeholders(len(permalinks))+`))
		LIMIT 1`, args...).Scan(&current)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return current, err
}

func (d *postData) FindFullByID(ctx context.Context, id models.PostID, webLogID models.WebLogID) (*models.Post, error) {
	return findDoc[models.Post](ctx, d.Store,
		`SELECT data FROM post WHERE id = ? AND web_log_id = ?`, id, webLogID)
}

func (d *postData) FindFullByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Post, error) {
	return findDocs[models.Post](ctx, d.Store,
		`SELECT data FROM post WHERE web_log_id = ?`, webLogID)
}

// forList drops the fields post listings never need.
func postsForList(posts []models.Post) []models.Post {
	for i := range posts {
		posts[i].PriorPermalinks = nil
		posts[i].Revisions = nil
	}
	return posts
}

func (d *postData) FindPageOfCategorizedPosts(ctx context.Context, webLogID models.WebLogID, catIDs []models.CategoryID, pageNbr, pageSize int) ([]models.Post, error) {
	if len(catIDs) == 0 {
		return nil, nil
	}
	limit, offset := data.PageWindow(pageNbr, pageSize)
	args := []any{webLogID, models.Published}
	for _, catID := range catIDs {
		args = append(args, catID)
	}
	args = append(args, limit, offset)
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = ? AND status = ?
		  AND EXISTS (SELECT 1 FROM json_each(post.data, '$.categoryIds')
		              WHERE value IN (`+placeholders(len(catIDs))+`))
		ORDER BY `+publishedExpr+` DESC
		LIMIT ? OFFSET ?`, args...)
	return postsForList(posts), err
}

func (d *postData) FindPageOfPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post WHERE web_log_id = ?
		ORDER BY COALESCE(`+publishedExpr+`,
		                  datetime(json_extract(data, '$.updatedOn'))) DESC
		LIMIT ? OFFSET ?`, webLogID, limit, offset)
	return postsForList(posts), err
}

func (d *postData) FindPageOfPublishedPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post WHERE web_log_id = ? AND status = ?
		ORDER BY `+publishedExpr+` DESC
		LIMIT ? OFFSET ?`, webLogID, models.Published, limit, offset)
	return postsForList(posts), err
}

func (d *postData) FindPageOfTaggedPosts(ctx context.Context, webLogID models.WebLogID, tag string, pageNbr, pageSize int) ([]models.Post, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = ? AND status = ?
		  AND EXISTS (SELECT 1 FROM json_each(post.data, '$.tags') WHERE value = ?)
		ORDER BY `+publishedExpr+` DESC
		LIMIT ? OFFSET ?`, webLogID, models.Published, tag, limit, offset)
	return postsForList(posts), err
}

func (d *postData) FindSurroundingPosts(ctx context.Context, webLogID models.WebLogID, publishedOn time.Time) (older, newer *models.Post, err error) {
	when := publishedOn.UTC().Format(time.RFC3339)
	older, err = findDoc[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = ? AND status = ? AND `+publishedExpr+` < datetime(?)
		ORDER BY `+publishedExpr+` DESC
		LIMIT 1`, webLogID, models.Published, when)
	if err != nil {
		return nil, nil, err
	}
	newer, err = findDoc[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = ? AND status = ? AND `+publishedExpr+` > datetime(?)
		ORDER BY `+publishedExpr+` ASC
		LIMIT 1`, webLogID, models.Published, when)
	if err != nil {
		return nil, nil, err
	}
	return older, newer, nil
}

func (d *postData) Restore(ctx context.Context, posts []models.Post) error {
	return data.InBatches(posts, data.RestoreBatchSize, func(batch []models.Post) error {
		for i := range batch {
			if err := d.insert(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *postData) Update(ctx context.Context, post *models.Post) error {
	doc, err := d.ser.Marshal(post)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx, `
		UPDATE post SET author_id = ?, status = ?, data = ?
		WHERE id = ? AND web_log_id = ?`,
		post.AuthorID, post.Status, doc, post.ID, post.WebLogID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("post %s: %w", post.ID, data.ErrConflict)
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %s: %w", post.ID, data.ErrNotFound)
	}
	return nil
}

func (d *postData) UpdatePriorPermalinks(ctx context.Context, id models.PostID, webLogID models.WebLogID, permalinks []string) (bool, error) {
	links, err := d.ser.Marshal(permalinks)
	if err != nil {
		return false, err
	}
	res, err := d.db.ExecContext(ctx, `
		UPDATE post SET data = json_set(data, '$.priorPermalinks', json(?))
		WHERE id = ? AND web_log_id = ?`, string(links), id, webLogID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
