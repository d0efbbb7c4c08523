package postgresdata

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/models"
)

type tagMapData struct{ *Store }

func (d *tagMapData) Delete(ctx context.Context, id models.TagMapID, webLogID models.WebLogID) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM tag_map WHERE id = $1 AND web_log_id = $2`, id, webLogID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (d *tagMapData) FindByID(ctx context.Context, id models.TagMapID, webLogID models.WebLogID) (*models.TagMap, error) {
	return findDoc[models.TagMap](ctx, d.Store,
		`SELECT data FROM tag_map WHERE id = $1 AND web_log_id = $2`, id, webLogID)
}

func (d *tagMapData) FindByURLValue(ctx context.Context, urlValue string, webLogID models.WebLogID) (*models.TagMap, error) {
	return findDoc[models.TagMap](ctx, d.Store, `
		SELECT data FROM tag_map
		WHERE web_log_id = $1 AND data ->> 'urlValue' = $2`,
		webLogID, urlValue)
}

func (d *tagMapData) FindByWebLog(ctx context.Context, webLogID models.WebLogID) ([]models.TagMap, error) {
	return findDocs[models.TagMap](ctx, d.Store, `
		SELECT data FROM tag_map WHERE web_log_id = $1
		ORDER BY data ->> 'tag'`, webLogID)
}

func (d *tagMapData) FindMappingForTags(ctx context.Context, tags []string, webLogID models.WebLogID) ([]models.TagMap, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return findDocs[models.TagMap](ctx, d.Store, `
		SELECT data FROM tag_map
		WHERE web_log_id = $1 AND data ->> 'tag' = ANY ($2)`,
		webLogID, pq.Array(tags))
}

func (d *tagMapData) Restore(ctx context.Context, tagMaps []models.TagMap) error {
	return data.InBatches(tagMaps, data.RestoreBatchSize, func(batch []models.TagMap) error {
		for i := range batch {
			if err := d.Save(ctx, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *tagMapData) Save(ctx context.Context, tagMap *models.TagMap) error {
	doc, err := d.ser.Marshal(tagMap)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
		INSERT INTO tag_map (id, web_log_id, data) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		tagMap.ID, tagMap.WebLogID, doc)
	if isUniqueViolation(err) {
		return fmt.Errorf("tag mapping %s: %w", tagMap.Tag, data.ErrConflict)
	}
	return err
}
