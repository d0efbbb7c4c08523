package relationaldata

import (
	"context"

	"gorm.io/gorm"

	"github.com/bit-badger/myweblog/internal/models"
)

type themeData struct{ *Store }

// loadTemplates attaches a theme's templates in upload order, optionally
// without their text.
func (d *themeData) loadTemplates(ctx context.Context, theme *models.Theme, withText bool) error {
	db := d.db.WithContext(ctx)
	if !withText {
		db = db.Omit("Text")
	}
	var rows []themeTemplateRow
	if err := db.Where("theme_id = ?", theme.ID).Order("idx").Find(&rows).Error; err != nil {
		return err
	}
	theme.Templates = make([]models.ThemeTemplate, len(rows))
	for i, row := range rows {
		theme.Templates[i] = models.ThemeTemplate{Name: row.Name, Text: row.Text}
	}
	return nil
}

func (d *themeData) All(ctx context.Context) ([]models.Theme, error) {
	var rows []themeRow
	err := d.db.WithContext(ctx).
		Where("id <> ?", "admin").Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	themes := make([]models.Theme, len(rows))
	for i, row := range rows {
		themes[i] = models.Theme{
			ID:      models.ThemeID(row.ID),
			Name:    row.Name,
			Version: row.Version,
		}
		if err := d.loadTemplates(ctx, &themes[i], false); err != nil {
			return nil, err
		}
	}
	return themes, nil
}

func (d *themeData) Delete(ctx context.Context, id models.ThemeID) (bool, error) {
	deleted := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&themeRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := tx.Where("theme_id = ?", id).Delete(&themeTemplateRow{}).Error; err != nil {
			return err
		}
		return tx.Where("theme_id = ?", id).Delete(&themeAssetRow{}).Error
	})
	return deleted, err
}

func (d *themeData) Exists(ctx context.Context, id models.ThemeID) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&themeRow{}).
		Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (d *themeData) find(ctx context.Context, id models.ThemeID, withText bool) (*models.Theme, error) {
	var row themeRow
	err := d.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	theme := models.Theme{
		ID:      models.ThemeID(row.ID),
		Name:    row.Name,
		Version: row.Version,
	}
	if err := d.loadTemplates(ctx, &theme, withText); err != nil {
		return nil, err
	}
	return &theme, nil
}

func (d *themeData) FindByID(ctx context.Context, id models.ThemeID) (*models.Theme, error) {
	return d.find(ctx, id, true)
}

func (d *themeData) FindByIDWithoutText(ctx context.Context, id models.ThemeID) (*models.Theme, error) {
	return d.find(ctx, id, false)
}

func (d *themeData) Save(ctx context.Context, theme *models.Theme) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := themeRow{
			ID:      string(theme.ID),
			Name:    theme.Name,
			Version: theme.Version,
		}
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("theme_id = ?", theme.ID).Delete(&themeTemplateRow{}).Error; err != nil {
			return err
		}
		rows := make([]themeTemplateRow, len(theme.Templates))
		for i, tpl := range theme.Templates {
			rows[i] = themeTemplateRow{
				ThemeID: string(theme.ID),
				Idx:     i,
				Name:    tpl.Name,
				Text:    tpl.Text,
			}
		}
		return createAll(tx, rows)
	})
}

type themeAssetData struct{ *Store }

func assetsToModels(rows []themeAssetRow) []models.ThemeAsset {
	assets := make([]models.ThemeAsset, len(rows))
	for i, row := range rows {
		assets[i] = models.ThemeAsset{
			ID: models.ThemeAssetID{
				ThemeID: models.ThemeID(row.ThemeID),
				Path:    row.Path,
			},
			UpdatedOn: row.UpdatedOn,
			Data:      row.Data,
		}
	}
	return assets
}

func (d *themeAssetData) All(ctx context.Context) ([]models.ThemeAsset, error) {
	var rows []themeAssetRow
	err := d.db.WithContext(ctx).Omit("Data").Find(&rows).Error
	return assetsToModels(rows), err
}

func (d *themeAssetData) DeleteByTheme(ctx context.Context, themeID models.ThemeID) error {
	return d.db.WithContext(ctx).
		Where("theme_id = ?", themeID).Delete(&themeAssetRow{}).Error
}

func (d *themeAssetData) FindByID(ctx context.Context, id models.ThemeAssetID) (*models.ThemeAsset, error) {
	var row themeAssetRow
	err := d.db.WithContext(ctx).
		First(&row, "theme_id = ? AND path = ?", id.ThemeID, id.Path).Error
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	asset := assetsToModels([]themeAssetRow{row})[0]
	return &asset, nil
}

func (d *themeAssetData) FindByTheme(ctx context.Context, themeID models.ThemeID) ([]models.ThemeAsset, error) {
	var rows []themeAssetRow
	err := d.db.WithContext(ctx).Omit("Data").
		Where("theme_id = ?", themeID).Find(&rows).Error
	return assetsToModels(rows), err
}

func (d *themeAssetData) FindByThemeWithData(ctx context.Context, themeID models.ThemeID) ([]models.ThemeAsset, error) {
	var rows []themeAssetRow
	err := d.db.WithContext(ctx).
		Where("theme_id = ?", themeID).Find(&rows).Error
	return assetsToModels(rows), err
}

func (d *themeAssetData) Save(ctx context.Context, asset *models.ThemeAsset) error {
	row := themeAssetRow{
		ThemeID:   string(asset.ID.ThemeID),
		Path:      asset.ID.Path,
		UpdatedOn: asset.UpdatedOn,
		Data:      asset.Data,
	}
	return d.db.WithContext(ctx).Save(&row).Error
}
