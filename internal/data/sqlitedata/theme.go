package sqlitedata

import (
	"context"
	"database/sql"
	"time"

	"github.com/bit-badger/myweblog/internal/models"
)

type themeData struct{ *Store }

func (d *themeData) All(ctx context.Context) ([]models.Theme, error) {
	themes, err := findDocs[models.Theme](ctx, d.Store,
		`SELECT data FROM theme WHERE id <> 'admin' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for i := range themes {
		themes[i] = themes[i].WithoutTemplateText()
	}
	return themes, nil
}

func (d *themeData) Delete(ctx context.Context, id models.ThemeID) (bool, error) {
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM theme_asset WHERE theme_id = ?`, id); err != nil {
		return false, err
	}
	res, err := d.db.ExecContext(ctx, `DELETE FROM theme WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (d *themeData) Exists(ctx context.Context, id models.ThemeID) (bool, error) {
	n, err := count(ctx, d.Store, `SELECT COUNT(*) FROM theme WHERE id = ?`, id)
	return n > 0, err
}

func (d *themeData) FindByID(ctx context.Context, id models.ThemeID) (*models.Theme, error) {
	return findDoc[models.Theme](ctx, d.Store, `SELECT data FROM theme WHERE id = ?`, id)
}

func (d *themeData) FindByIDWithoutText(ctx context.Context, id models.ThemeID) (*models.Theme, error) {
	theme, err := d.FindByID(ctx, id)
	if theme != nil {
		trimmed := theme.WithoutTemplateText()
		theme = &trimmed
	}
	return theme, err
}

func (d *themeData) Save(ctx context.Context, theme *models.Theme) error {
	doc, err := d.ser.Marshal(theme)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO theme (id, data) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data`, theme.ID, doc)
	return err
}

type themeAssetData struct{ *Store }

func (d *themeAssetData) scanAssets(rows *sql.Rows, withData bool) ([]models.ThemeAsset, error) {
	defer rows.Close()
	var assets []models.ThemeAsset
	for rows.Next() {
		var (
			asset     models.ThemeAsset
			updatedOn string
		)
		dest := []any{&asset.ID.ThemeID, &asset.ID.Path, &updatedOn}
		if withData {
			dest = append(dest, &asset.Data)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		when, err := time.Parse(time.RFC3339, updatedOn)
		if err != nil {
			return nil, err
		}
		asset.UpdatedOn = when
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (d *themeAssetData) All(ctx context.Context) ([]models.ThemeAsset, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT theme_id, path, updated_on FROM theme_asset`)
	if err != nil {
		return nil, err
	}
	return d.scanAssets(rows, false)
}

func (d *themeAssetData) DeleteByTheme(ctx context.Context, themeID models.ThemeID) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM theme_asset WHERE theme_id = ?`, themeID)
	return err
}

func (d *themeAssetData) FindByID(ctx context.Context, id models.ThemeAssetID) (*models.ThemeAsset, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT theme_id, path, updated_on, data FROM theme_asset
		WHERE theme_id = ? AND path = ?`, id.ThemeID, id.Path)
	if err != nil {
		return nil, err
	}
	assets, err := d.scanAssets(rows, true)
	if err != nil || len(assets) == 0 {
		return nil, err
	}
	return &assets[0], nil
}

func (d *themeAssetData) FindByTheme(ctx context.Context, themeID models.ThemeID) ([]models.ThemeAsset, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT theme_id, path, updated_on FROM theme_asset
		WHERE theme_id = ?`, themeID)
	if err != nil {
		return nil, err
	}
	return d.scanAssets(rows, false)
}

func (d *themeAssetData) FindByThemeWithData(ctx context.Context, themeID models.ThemeID) ([]models.ThemeAsset, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT theme_id, path, updated_on, data FROM theme_asset
		WHERE theme_id = ?`, themeID)
	if err != nil {
		return nil, err
	}
	return d.scanAssets(rows, true)
}

func (d *themeAssetData) Save(ctx context.Context, asset *models.ThemeAsset) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO theme_asset (theme_id, path, updated_on, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (theme_id, path) DO UPDATE
			SET updated_on = excluded.updated_on, data = excluded.data`,
		asset.ID.ThemeID, asset.ID.Path,
		asset.UpdatedOn.UTC().Format(time.RFC3339), asset.Data)
	return err
}
