package postgresdata

import (
	"context"
	"fmt"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type webLogData struct{ *Store }

func (d *webLogData) Add(ctx context.Context, webLog *models.WebLog) error {
	doc, err := d.ser.Marshal(webLog)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO web_log (id, data) VALUES ($1, $2)`, webLog.ID, doc)
	if isUniqueViolation(err) {
		return fmt.Errorf("web log %s: %w", webLog.URLBase, data.ErrConflict)
	}
	return err
}

func (d *webLogData) All(ctx context.Context) ([]models.WebLog, error) {
	return findDocs[models.WebLog](ctx, d.Store,
		`SELECT data FROM web_log ORDER BY data ->> 'name'`)
}

// Delete removes the web log and everything it owns in one transaction,
// dependents first.
func (d *webLogData) Delete(ctx context.Context, webLogID models.WebLogID) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []struct {
		name  string
		query string
	}{
		{"comments", `DELETE FROM comment WHERE post_id IN
			(SELECT id FROM post WHERE web_log_id = $1)`},
		{"posts", `DELETE FROM post WHERE web_log_id = $1`},
		{"pages", `DELETE FROM page WHERE web_log_id = $1`},
		{"categories", `DELETE FROM category WHERE web_log_id = $1`},
		{"tag mappings", `DELETE FROM tag_map WHERE web_log_id = $1`},
		{"uploads", `DELETE FROM upload WHERE web_log_id = $1`},
		{"users", `DELETE FROM web_log_user WHERE web_log_id = $1`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, webLogID); err != nil {
			return fmt.Errorf("deleting %s for web log %s: %w", step.name, webLogID, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM web_log WHERE id = $1`, webLogID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("web log %s: %w", webLogID, data.ErrNotFound)
	}
	return tx.Commit()
}

func (d *webLogData) FindByHost(ctx context.Context, url string) (*models.WebLog, error) {
	return findDoc[models.WebLog](ctx, d.Store,
		`SELECT data FROM web_log WHERE data ->> 'urlBase' = $1`, url)
}

func (d *webLogData) FindByID(ctx context.Context, webLogID models.WebLogID) (*models.WebLog, error) {
	return findDoc[models.WebLog](ctx, d.Store,
		`SELECT data FROM web_log WHERE id = $1`, webLogID)
}

func (d *webLogData) save(ctx context.Context, webLog *models.WebLog) error {
	doc, err := d.ser.Marshal(webLog)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx,
		`UPDATE web_log SET data = $1 WHERE id = $2`, doc, webLog.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("web log %s: %w", webLog.URLBase, data.ErrConflict)
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("web log %s: %w", webLog.ID, data.ErrNotFound)
	}
	return nil
}

func (d *webLogData) UpdateRedirectRules(ctx context.Context, webLog *models.WebLog) error {
	current, err := d.FindByID(ctx, webLog.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("web log %s: %w", webLog.ID, data.ErrNotFound)
	}
	current.Redirects = webLog.Redirects
	return d.save(ctx, current)
}

func (d *webLogData) UpdateRssOptions(ctx context.Context, webLog *models.WebLog) error {
	current, err := d.FindByID(ctx, webLog.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("web log %s: %w", webLog.ID, data.ErrNotFound)
	}
	current.Rss = webLog.Rss
	return d.save(ctx, current)
}

func (d *webLogData) UpdateSettings(ctx context.Context, webLog *models.WebLog) error {
	current, err := d.FindByID(ctx, webLog.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("web log %s: %w", webLog.ID, data.ErrNotFound)
	}
	updated := *webLog
	updated.Rss = current.Rss
	updated.Redirects = current.Redirects
	return d.save(ctx, &updated)
}
