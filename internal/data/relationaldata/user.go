package relationaldata

import (
	"context"
	"fmt"
	"time"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type webLogUserData struct{ *Store }

func (d *webLogUserData) Add(ctx context.Context, user *models.WebLogUser) error {
	row := userToRow(user)
	err := d.db.WithContext(ctx).Create(&row).Error
	if isConflict(err) {
		return fmt.Errorf("user %s: %w", user.Email, data.ErrConflict)
	}
	return err
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
	var pages, posts int64
	if err := d.db.WithContext(ctx).Model(&pageRow{}).
		Where("author_id = ?", id).Count(&pages).Error; err != nil {
		return err
	}
	if err := d.db.WithContext(ctx).Model(&postRow{}).
		Where("author_id = ?", id).Count(&posts).Error; err != nil {
		return err
	}
	if pages+posts > 0 {
		return fmt.Errorf("user %s has authored content: %w", id, data.ErrReferenced)
	}
	return d.db.WithContext(ctx).Where("id = ?", id).Delete(&webLogUserRow{}).Error
}

func (d *webLogUserData) findOne(ctx context.Context, query string, args ...any) (*models.WebLogUser, error) {
	var row webLogUserRow
	err := d.db.WithContext(ctx).First(&row, append([]any{query}, args...)...).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	user := row.toModel()
	return &user, nil
}

func (d *webLogUserData) FindByEmail(ctx context.Context, email string, webLogID models.WebLogID) (*models.WebLogUser, error) {
	return d.findOne(ctx, "web_log_id = ? AND email = ?", webLogID, email)
}

func (d *webLogUserData) FindByID(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) (*models.WebLogUser, error) {
	return d.findOne(ctx, "id = ? AND web_log_id = ?", id, webLogID)
}

func (d *webLogUserData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.WebLogUser, error) {
	var rows []webLogUserRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ?", webLogID).
		Order("LOWER(preferred_name)").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]models.WebLogUser, len(rows))
	for i := range rows {
		users[i] = rows[i].toModel()
	}
	return users, nil
}

func (d *webLogUserData) FindNames(ctx context.Context, webLogID models.WebLogID, ids []models.WebLogUserID) ([]models.UserName, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []webLogUserRow
	err := d.db.WithContext(ctx).
		Where("web_log_id = ? AND id IN ?", webLogID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	names := make([]models.UserName, len(rows))
	for i := range rows {
		user := rows[i].toModel()
		names[i] = models.UserName{ID: user.ID, Name: user.DisplayName()}
	}
	return names, nil
}

func (d *webLogUserData) Restore(ctx context.Context, users []models.WebLogUser) error {
	return data.InBatches(users, data.RestoreBatchSize, func(batch []models.WebLogUser) error {
		rows := make([]webLogUserRow, len(batch))
		for i := range batch {
			rows[i] = userToRow(&batch[i])
		}
		err := d.db.WithContext(ctx).Create(&rows).Error
		if isConflict(err) {
			return fmt.Errorf("users: %w", data.ErrConflict)
		}
		return err
	})
}

func (d *webLogUserData) SetLastSeen(ctx context.Context, id models.WebLogUserID, webLogID models.WebLogID) error {
	// Fire and forget: a user who vanished mid-session is not an error.
	return d.db.WithContext(ctx).Model(&webLogUserRow{}).
		Where("id = ? AND web_log_id = ?", id, webLogID).
		Update("last_seen_on", time.Now().UTC()).Error
}

func (d *webLogUserData) Update(ctx context.Context, user *models.WebLogUser) error {
	row := userToRow(user)
	res := d.db.WithContext(ctx).Model(&webLogUserRow{}).
		Where("id = ? AND web_log_id = ?", user.ID, user.WebLogID).
		Select("Email", "FirstName", "LastName", "PreferredName",
			"PasswordHash", "Salt", "URL", "AccessLevel").
		Updates(&row)
	if res.Error != nil {
		if isConflict(res.Error) {
			return fmt.Errorf("user %s: %w", user.Email, data.ErrConflict)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, data.ErrNotFound)
	}
	return nil
}
