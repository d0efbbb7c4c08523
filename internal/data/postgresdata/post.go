package postgresdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type postData struct{ *Store }

const publishedExpr = `(data ->> 'publishedOn')::timestamptz`

func (d *postData) insert(ctx context.Context, post *models.Post) error {
	doc, err := d.ser.Marshal(post)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO post (id, web_log_id, author_id, status, data)
		VALUES ($1, $2, $3, $4, $5)`,
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
		`SELECT COUNT(*) FROM post WHERE web_log_id = $1 AND status = $2`, webLogID, status)
}

func (d *postData) Delete(ctx context.Context, id models.PostID, webLogID models.WebLogID) (bool, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM comment WHERE post_id IN
			(SELECT id FROM post WHERE id = $1 AND web_log_id = $2)`, id, webLogID); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM post WHERE id = $1 AND web_log_id = $2`, id, webLogID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, tx.Commit()
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
		WHERE web_log_id = $1 AND data ->> 'permalink' = $2`,
		webLogID, permalink)
}

func (d *postData) FindCurrentPermalink(ctx context.Context, permalinks []string, webLogID models.WebLogID) (string, error) {
	if len(permalinks) == 0 {
		return "", nil
	}
	var current string
	err := d.db.QueryRowContext(ctx, `
		SELECT data ->> 'permalink' FROM post
		WHERE web_log_id = $1 AND data -> 'priorPermalinks' ?| $2
		LIMIT 1`, webLogID, pq.Array(permalinks)).Scan(&current)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return current, err
}

func (d *postData) FindFullByID(ctx context.Context, id models.PostID, webLogID models.WebLogID) (*models.Post, error) {
	return findDoc[models.Post](ctx, d.Store,
		`SELECT data FROM post WHERE id = $1 AND web_log_id = $2`, id, webLogID)
}

func (d *postData) FindFullByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.Post, error) {
	return findDocs[models.Post](ctx, d.Store,
		`SELECT data FROM post WHERE web_log_id = $1`, webLogID)
}

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
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = $1 AND status = $2 AND data -> 'categoryIds' ?| $3
		ORDER BY `+publishedExpr+` DESC
		LIMIT $4 OFFSET $5`,
		webLogID, models.Published, pq.Array(catIDStrings(catIDs)), limit, offset)
	return postsForList(posts), err
}

func (d *postData) FindPageOfPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post WHERE web_log_id = $1
		ORDER BY COALESCE(`+publishedExpr+`,
		                  (data ->> 'updatedOn')::timestamptz) DESC
		LIMIT $2 OFFSET $3`, webLogID, limit, offset)
	return postsForList(posts), err
}

func (d *postData) FindPageOfPublishedPosts(ctx context.Context, webLogID models.WebLogID, pageNbr, pageSize int) ([]models.Post, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post WHERE web_log_id = $1 AND status = $2
		ORDER BY `+publishedExpr+` DESC
		LIMIT $3 OFFSET $4`, webLogID, models.Published, limit, offset)
	return postsForList(posts), err
}

func (d *postData) FindPageOfTaggedPosts(ctx context.Context, webLogID models.WebLogID, tag string, pageNbr, pageSize int) ([]models.Post, error) {
	limit, offset := data.PageWindow(pageNbr, pageSize)
	posts, err := findDocs[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = $1 AND status = $2 AND data -> 'tags' ? $3
		ORDER BY `+publishedExpr+` DESC
		LIMIT $4 OFFSET $5`, webLogID, models.Published, tag, limit, offset)
	return postsForList(posts), err
}

func (d *postData) FindSurroundingPosts(ctx context.Context, webLogID models.WebLogID, publishedOn time.Time) (older, newer *models.Post, err error) {
	older, err = findDoc[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = $1 AND status = $2 AND `+publishedExpr+` < $3
		ORDER BY `+publishedExpr+` DESC
		LIMIT 1`, webLogID, models.Published, publishedOn)
	if err != nil {
		return nil, nil, err
	}
	newer, err = findDoc[models.Post](ctx, d.Store, `
		SELECT data FROM post
		WHERE web_log_id = $1 AND status = $2 AND `+publishedExpr+` > $3
		ORDER BY `+publishedExpr+` ASC
		LIMIT 1`, webLogID, models.Published, publishedOn)
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
		UPDATE post SET author_id = $1, status = $2, data = $3
		WHERE id = $4 AND web_log_id = $5`,
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
		UPDATE post SET data = jsonb_set(data, '{priorPermalinks}', $1::jsonb)
		WHERE id = $2 AND web_log_id = $3`, links, id, webLogID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
