// Package sqlitedata is the document-store backend: each entity lives in a
// table of key columns plus one JSON document, with json_extract expression
// indexes standing in for a document database's secondary indexes. SQLite
// gives no cross-table transaction guarantees to the cascading operations
// here; they run dependents-first, like the document stores this adapter
// models.
package sqlitedata

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/bit-badger/myweblog/internal/data"
)

// Store is the shared connection and serializer behind this backend's ports.
type Store struct {
	db  *sql.DB
	ser data.Serializer
}

// Open connects to (or creates) the SQLite database at path and returns the
// assembled data facade. Call StartUp before serving.
func Open(path string, ser data.Serializer) (*data.Data, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during writes; the busy timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, ser: ser}
	return data.NewData(s,
		&categoryData{s}, &pageData{s}, &postData{s}, &tagMapData{s},
		&themeData{s}, &themeAssetData{s}, &uploadData{s}, &webLogData{s},
		&webLogUserData{s}), nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

var tables = map[string]string{
	"theme": `CREATE TABLE theme (
		id   TEXT PRIMARY KEY,
		data TEXT NOT NULL)`,
	"theme_asset": `CREATE TABLE theme_asset (
		theme_id   TEXT NOT NULL,
		path       TEXT NOT NULL,
		updated_on TEXT NOT NULL,
		data       BLOB NOT NULL,
		PRIMARY KEY (theme_id, path))`,
	"web_log": `CREATE TABLE web_log (
		id   TEXT PRIMARY KEY,
		data TEXT NOT NULL)`,
	"category": `CREATE TABLE category (
		id         TEXT PRIMARY KEY,
		web_log_id TEXT NOT NULL,
		data       TEXT NOT NULL)`,
	"page": `CREATE TABLE page (
		id         TEXT PRIMARY KEY,
		web_log_id TEXT NOT NULL,
		author_id  TEXT NOT NULL,
		data       TEXT NOT NULL)`,
	"post": `CREATE TABLE post (
		id         TEXT PRIMARY KEY,
		web_log_id TEXT NOT NULL,
		author_id  TEXT NOT NULL,
		status     TEXT NOT NULL,
		data       TEXT NOT NULL)`,
	"comment": `CREATE TABLE comment (
		id      TEXT PRIMARY KEY,
		post_id TEXT NOT NULL,
		data    TEXT NOT NULL)`,
	"tag_map": `CREATE TABLE tag_map (
		id         TEXT PRIMARY KEY,
		web_log_id TEXT NOT NULL,
		data       TEXT NOT NULL)`,
	"upload": `CREATE TABLE upload (
		id         TEXT PRIMARY KEY,
		web_log_id TEXT NOT NULL,
		path       TEXT NOT NULL,
		updated_on TEXT NOT NULL,
		data       BLOB NOT NULL)`,
	"web_log_user": `CREATE TABLE web_log_user (
		id         TEXT PRIMARY KEY,
		web_log_id TEXT NOT NULL,
		data       TEXT NOT NULL)`,
	"db_version": `CREATE TABLE db_version (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL)`,
}

var indexes = map[string]string{
	"web_log_url_base_idx": `CREATE UNIQUE INDEX web_log_url_base_idx
		ON web_log (json_extract(data, '$.urlBase'))`,
	"category_web_log_idx": `CREATE INDEX category_web_log_idx
		ON category (web_log_id)`,
	"page_web_log_idx": `CREATE INDEX page_web_log_idx
		ON page (web_log_id)`,
	"page_author_idx": `CREATE INDEX page_author_idx
		ON page (author_id)`,
	"page_permalink_idx": `CREATE UNIQUE INDEX page_permalink_idx
		ON page (web_log_id, json_extract(data, '$.permalink'))`,
	"post_web_log_idx": `CREATE INDEX post_web_log_idx
		ON post (web_log_id)`,
	"post_author_idx": `CREATE INDEX post_author_idx
		ON post (author_id)`,
	"post_status_idx": `CREATE INDEX post_status_idx
		ON post (web_log_id, status)`,
	"post_permalink_idx": `CREATE UNIQUE INDEX post_permalink_idx
		ON post (web_log_id, json_extract(data, '$.permalink'))`,
	"comment_post_idx": `CREATE INDEX comment_post_idx
		ON comment (post_id)`,
	"tag_map_tag_idx": `CREATE UNIQUE INDEX tag_map_tag_idx
		ON tag_map (web_log_id, json_extract(data, '$.tag'))`,
	"tag_map_url_idx": `CREATE UNIQUE INDEX tag_map_url_idx
		ON tag_map (web_log_id, json_extract(data, '$.urlValue'))`,
	"upload_path_idx": `CREATE UNIQUE INDEX upload_path_idx
		ON upload (web_log_id, path)`,
	"web_log_user_email_idx": `CREATE UNIQUE INDEX web_log_user_email_idx
		ON web_log_user (web_log_id, json_extract(data, '$.email'))`,
}

// StartUp creates missing tables and indexes, then applies any pending data
// migrations. Every step checks for existence first, so running it against
// an initialized store changes nothing, and two instances racing to create
// the same object both succeed.
func (s *Store) StartUp(ctx context.Context) error {
	for name, ddl := range tables {
		exists, err := s.objectExists(ctx, "table", name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		log.Printf("sqlite: creating table %s", name)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil && !alreadyExists(err) {
			return fmt.Errorf("creating table %s: %w", name, err)
		}
	}
	for name, ddl := range indexes {
		exists, err := s.objectExists(ctx, "index", name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		log.Printf("sqlite: creating index %s", name)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil && !alreadyExists(err) {
			return fmt.Errorf("creating index %s: %w", name, err)
		}
	}
	return data.Migrate(ctx, "sqlite", s)
}

func (s *Store) objectExists(ctx context.Context, kind, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`,
		kind, name).Scan(&n)
	return n > 0, err
}

// GetVersion reads the version marker; "" when the store predates
// versioning.
func (s *Store) GetVersion(ctx context.Context) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx, `SELECT version FROM db_version WHERE id = 1`).Scan(&version)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return version, err
}

// SetVersion writes the version marker.
func (s *Store) SetVersion(ctx context.Context, version string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO db_version (id, version) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET version = excluded.version`, version)
	return err
}

// MigrateStep applies the forward transform for one version.
func (s *Store) MigrateStep(ctx context.Context, version string) error {
	switch version {
	case "v2", "v2.1.1":
		// Marker-only steps; the schema work happens in StartUp.
		return nil
	case "v2.1":
		// Give every web log document an empty redirect rule list.
		_, err := s.db.ExecContext(ctx, `
			UPDATE web_log SET data = json_set(data, '$.redirectRules', json('[]'))
			WHERE json_extract(data, '$.redirectRules') IS NULL`)
		return err
	default:
		return fmt.Errorf("unknown migration step %q", version)
	}
}

func alreadyExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// placeholders returns "?, ?, ..." for n bound values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
