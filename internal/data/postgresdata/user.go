package postgresdata

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

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
		`INSERT INTO web_log_user (id, web_log_id, data) VALUES ($1, $2, $3)`,
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
	authored, err := count(ctx, d.Store, `
		SELECT (SELECT COUNT(*) FROM page WHERE author_id = $1)
		     + (SELECT COUNT(*) FROM post WHERE author_id = $1)`, id)
	if err != nil {
		return err
	}
	if authored > 0 {
		return fmt.Errorf("user %s has authored content: %w", id, data.ErrReferenced)
	}
	_, err = d.db.ExecContext(ctx, `DELETE FROM web_log_user WHERE id = $1`, id)
	return err
}

func (d *webLogUserData) FindByEmail(ctx context.Context, email string, webLogID models.WebLogID) (*models.WebLogUser, error) {
	return findDoc[models.WebLogUser](ctx, d.Store, `
		SELECT data FROM web_log_user
		WHERE web_log_id = $1 AND data ->> 'email' = $2`,
		webLogID, email)
}

func (d *webLogUserData) FindByID(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) (*models.WebLogUser, error) {
	return findDoc[models.WebLogUser](ctx, d.Store,
		`SELECT data FROM web_log_user WHERE id = $1 AND web_log_id = $2`, id, webLogID)
}

func (d *webLogUserData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.WebLogUser, error) {
	return findDocs[models.WebLogUser](ctx, d.Store, `
		SELECT data FROM web_log_user WHERE web_log_id = $1
		ORDER BY LOWER(data ->> 'preferredName')`, webLogID)
}

func (d *webLogUserData) FindNames(ctx context.Context, webLogID models.WebLogID, ids []models.WebLogUserID) ([]models.UserName, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = string(id)
	}
	users, err := findDocs[models.WebLogUser](ctx, d.Store, `
		SELECT data FROM web_log_user
		WHERE web_log_id = $1 AND id = ANY ($2)`, webLogID, pq.Array(idStrings))
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
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := d.db.ExecContext(ctx, `
		UPDATE web_log_user
		SET data = jsonb_set(data, '{lastSeenOn}', to_jsonb($1::text))
		WHERE id = $2 AND web_log_id = $3`, now, id, webLogID)
	return err
}

func (d *webLogUserData) Update(ctx context.Context, user *models.WebLogUser) error {
	doc, err := d.ser.Marshal(user)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx,
		`UPDATE web_log_user SET data = $1 WHERE id = $2 AND web_log_id = $3`,
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
