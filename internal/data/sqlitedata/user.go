package sqlitedata

import (
	"context"
	"fmt"
	"time"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type webLogUserData struct{ *Store }

func (d *webLogUserData) insert(ctx context.Context, user *models.WebLogUser) error {
	doc, err := d.ser.Marshal(user)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO web_log_user (id, web_log_id, data) VALUES (?, ?, ?)`,
		user.ID, user.WebLogID, doc)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", user.Email, data.ErrConflict)
	}
	return err
}

func (d *webLogUserData) Add(ctx context.Context, user *models.WebLogUser) error {
	return d.insert(ctx, user)
}

func (d *webLogUserData) Delete(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) error {
	user, err := d.FindByID(ctx, id, webLogID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", id, data.ErrNotFound)
	}
	// An author's pages and posts would be orphaned; refuse instead.
	pages, err := count(ctx, d.Store,
		`SELECT COUNT(*) FROM page WHERE author_id = ?`, id)
	if err != nil {
		return err
	}
	posts, err := count(ctx, d.Store,
		`SELECT COUNT(*) FROM post WHERE author_id = ?`, id)
	if err != nil {
		return err
	}
	if pages+posts > 0 {
		return fmt.Errorf("user %s has authored content: %w", id, data.ErrReferenced)
	}
	_, err = d.db.ExecContext(ctx, `DELETE FROM web_log_user WHERE id = ?`, id)
	return err
}

func (d *webLogUserData) FindByEmail(ctx context.Context, email string, webLogID models.WebLogID) (*models.WebLogUser, error) {
	return findDoc[models.WebLogUser](ctx, d.Store, `
		SELECT data FROM web_log_user
		WHERE web_log_id = ? AND json_extract(data, '$.email') = ?`,
		webLogID, email)
}

func (d *webLogUserData) FindByID(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) (*models.WebLogUser, error) {
	return findDoc[models.WebLogUser](ctx, d.Store,
		`SELECT data FROM web_log_user WHERE id = ? AND web_log_id = ?`, id, webLogID)
}

func (d *webLogUserData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.WebLogUser, error) {
	return findDocs[models.WebLogUser](ctx, d.Store, `
		SELECT data FROM web_log_user WHERE web_log_id = ?
		ORDER BY LOWER(json_extract(data, '$.preferredName'))`, webLogID)
}

func (d *webLogUserData) FindNames(ctx context.Context, webLogID models.WebLogID, ids []models.WebLogUserID) ([]models.UserName, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := []any{webLogID}
	for _, id := range ids {
		args = append(args, id)
	}
	users, err := findDocs[models.WebLogUser](ctx, d.Store, `
		SELECT data FROM web_log_user
		WHERE web_log_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, err
	}
	names := make([]models.UserName, len(users))
	for i := range users {
		names[i] = models.UserName{ID: users[i].ID, Name: users[i].DisplayName()}
	}
	return names, nil
}

func (d *webLogUserData) Restore(ctx context.Context, users []models.WebLogUser) error {
	return data.InBatches(users, data.RestoreBatchSize, func(batch []models.WebLogUser) error {
		for i := range batch {
			if err := d.insert(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *webLogUserData) SetLastSeen(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) error {
	// Fire and forget: a user who vanished mid-session is not an error.
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := d.db.ExecContext(ctx, `
		UPDATE web_log_user SET data = json_set(data, '$.lastSeenOn', ?)
		WHERE id = ? AND web_log_id = ?`, now, id, webLogID)
	return err
}

func (d *webLogUserData) Update(ctx context.Context, user *models.WebLogUser) error {
	doc, err := d.ser.Marshal(user)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx,
		`UPDATE web_log_user SET data = ? WHERE id = ? AND web_log_id = ?`,
		doc, user.ID, user.WebLogID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, data.ErrConflict)
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", user.ID, data.ErrNotFound)
	}
	return nil
}
