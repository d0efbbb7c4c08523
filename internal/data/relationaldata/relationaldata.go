// Package relationaldata is the fully relational backend: gorm over SQLite,
// with child tables for revisions, prior permalinks, post categories, and
// post tags instead of JSON documents. Cascading operations run inside
// transactions.
package relationaldata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bit-badger/myweblog/internal/data"
)

// Store is the shared gorm connection behind this backend's ports.
type Store struct {
	db *gorm.DB
}

// allRows lists every table model, parents before children, for schema
// migration.
var allRows = []any{
	&webLogRow{},
	&categoryRow{},
	&pageRow{},
	&pagePermalinkRow{},
	&pageRevisionRow{},
	&postRow{},
	&postPermalinkRow{},
	&postRevisionRow{},
	&postCategoryRow{},
	&postTagRow{},
	&commentRow{},
	&tagMapRow{},
	&uploadRow{},
	&themeRow{},
	&themeTemplateRow{},
	&themeAssetRow{},
	&webLogUserRow{},
	&dbVersionRow{},
}

// Open connects to (or creates) the SQLite database at path and returns the
// assembled data facade. Call StartUp before serving. JSON-valued columns go
// through gorm's own serializer, so no serializer handle is taken here.
func Open(path string) (*data.Data, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	return data.NewData(s,
		&categoryData{s}, &pageData{s}, &postData{s}, &tagMapData{s},
		&themeData{s}, &themeAssetData{s}, &uploadData{s}, &webLogData{s},
		&webLogUserData{s}), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartUp migrates the schema and applies any pending data migrations. Both
// halves are idempotent; a second run against an initialized store changes
// nothing.
func (s *Store) StartUp(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	migrator := db.Migrator()
	for _, row := range allRows {
		if !migrator.HasTable(row) {
			log.Printf("relational: creating table %s", tableName(row))
		}
	}
	if err := db.AutoMigrate(allRows...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return data.Migrate(ctx, "relational", s)
}

func tableName(row any) string {
	if t, ok := row.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", row)
}

// GetVersion reads the version marker; "" when the store predates
// versioning.
func (s *Store) GetVersion(ctx context.Context) (string, error) {
	var row dbVersionRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return row.Version, err
}

// SetVersion writes the version marker.
func (s *Store) SetVersion(ctx context.Context, version string) error {
	return s.db.WithContext(ctx).
		Save(&dbVersionRow{ID: 1, Version: version}).Error
}

// MigrateStep applies the forward transform for one version.
func (s *Store) MigrateStep(ctx context.Context, version string) error {
	switch version {
	case "v2", "v2.1.1":
		// Marker-only steps; the schema work happens in StartUp.
		return nil
	case "v2.1":
		// Give every web log an empty redirect rule list. Raw SQL keeps
		// the literal out of the column's JSON serializer.
		return s.db.WithContext(ctx).
			Exec(`UPDATE web_log SET redirects = '[]'
			      WHERE redirects IS NULL OR redirects = ''`).Error
	default:
		return fmt.Errorf("unknown migration step %q", version)
	}
}

// isConflict reports whether an insert or update hit a unique constraint.
func isConflict(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ignoreNotFound drops gorm's record-not-found error; reads report absence as
// a nil result, not an error.
func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// createAll inserts a batch of child rows, tolerating an empty batch.
func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
