// Package postgresdata is the JSONB backend: each entity lives in a table of
// key columns plus one jsonb document, with expression indexes over the
// fields the finders query. Unlike the document-store backend, multi-entity
// cascades here run inside a transaction.
package postgresdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/bit-badger/myweblog/internal/data"
)

// Store is the shared connection and serializer behind this backend's ports.
type Store struct {
	db  *sql.DB
	ser data.Serializer
}

// Open connects to PostgreSQL with the given lib/pq connection string and
// returns the assembled data facade. Call StartUp before serving.
func Open(dsn string, ser data.Serializer) (*data.Data, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &Store{db: db, ser: ser}
	return data.NewData(s,
		&categoryData{s}, &pageData{s}, &postData{s}, &tagMapData{s},
		&themeData{s}, &themeAssetData{s}, &uploadData{s}, &webLogData{s},
		&webLogUserData{s}), nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

var tables = map[string]string{
	"theme": `CREATE TABLE theme (
		id   TEXT  PRIMARY KEY,
		data JSONB NOT NULL)`,
	"theme_asset": `CREATE TABLE theme_asset (
		theme_id   TEXT        NOT NULL,
		path       TEXT        NOT NULL,
		updated_on TIMESTAMPTZ NOT NULL,
		data       BYTEA       NOT NULL,
		PRIMARY KEY (theme_id, path))`,
	"web_log": `CREATE TABLE web_log (
		id   TEXT  PRIMARY KEY,
		data JSONB NOT NULL)`,
	"category": `CREATE TABLE category (
		id         TEXT  PRIMARY KEY,
		web_log_id TEXT  NOT NULL,
		data       JSONB NOT NULL)`,
	"page": `CREATE TABLE page (
		id         TEXT  PRIMARY KEY,
		web_log_id TEXT  NOT NULL,
		author_id  TEXT  NOT NULL,
		data       JSONB NOT NULL)`,
	"post": `CREATE TABLE post (
		id         TEXT  PRIMARY KEY,
		web_log_id TEXT  NOT NULL,
		author_id  TEXT  NOT NULL,
		status     TEXT  NOT NULL,
		data       JSONB NOT NULL)`,
	"comment": `CREATE TABLE comment (
		id      TEXT  PRIMARY KEY,
		post_id TEXT  NOT NULL,
		data    JSONB NOT NULL)`,
	"tag_map": `CREATE TABLE tag_map (
		id         TEXT  PRIMARY KEY,
		web_log_id TEXT  NOT NULL,
		data       JSONB NOT NULL)`,
	"upload": `CREATE TABLE upload (
		id         TEXT        PRIMARY KEY,
		web_log_id TEXT        NOT NULL,
		path       TEXT        NOT NULL,
		updated_on TIMESTAMPTZ NOT NULL,
		data       BYTEA       NOT NULL)`,
	"web_log_user": `CREATE TABLE web_log_user (
		id         TEXT  PRIMARY KEY,
		web_log_id TEXT  NOT NULL,
		data       JSONB NOT NULL)`,
	"db_version": `CREATE TABLE db_version (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL)`,
}

var indexes = map[string]string{
	"web_log_url_base_idx": `CREATE UNIQUE INDEX web_log_url_base_idx
		ON web_log ((data ->> 'urlBase'))`,
	"category_web_log_idx": `CREATE INDEX category_web_log_idx
		ON category (web_log_id)`,
	"page_web_log_idx": `CREATE INDEX page_web_log_idx
		ON page (web_log_id)`,
	"page_author_idx": `CREATE INDEX page_author_idx
		ON page (author_id)`,
	"page_permalink_idx": `CREATE UNIQUE INDEX page_permalink_idx
		ON page (web_log_id, (data ->> 'permalink'))`,
	"page_prior_idx": `CREATE INDEX page_prior_idx
		ON page USING GIN ((data -> 'priorPermalinks'))`,
	"post_web_log_idx": `CREATE INDEX post_web_log_idx
		ON post (web_log_id)`,
	"post_author_idx": `CREATE INDEX post_author_idx
		ON post (author_id)`,
	"post_status_idx": `CREATE INDEX post_status_idx
		ON post (web_log_id, status)`,
	"post_permalink_idx": `CREATE UNIQUE INDEX post_permalink_idx
		ON post (web_log_id, (data ->> 'permalink'))`,
	"post_prior_idx": `CREATE INDEX post_prior_idx
		ON post USING GIN ((data -> 'priorPermalinks'))`,
	"post_category_idx": `CREATE INDEX post_category_idx
		ON post USING GIN ((data -> 'categoryIds'))`,
	"post_tag_idx": `CREATE INDEX post_tag_idx
		ON post USING GIN ((data -> 'tags'))`,
	"comment_post_idx": `CREATE INDEX comment_post_idx
		ON comment (post_id)`,
	"tag_map_tag_idx": `CREATE UNIQUE INDEX tag_map_tag_idx
		ON tag_map (web_log_id, (data ->> 'tag'))`,
	"tag_map_url_idx": `CREATE UNIQUE INDEX tag_map_url_idx
		ON tag_map (web_log_id, (data ->> 'urlValue'))`,
	"upload_path_idx": `CREATE UNIQUE INDEX upload_path_idx
		ON upload (web_log_id, path)`,
	"web_log_user_email_idx": `CREATE UNIQUE INDEX web_log_user_email_idx
		ON web_log_user (web_log_id, (data ->> 'email'))`,
}

// StartUp creates missing tables and indexes, then applies any pending data
// migrations. Another instance racing to create the same object is treated
// as success.
func (s *Store) StartUp(ctx context.Context) error {
	for name, ddl := range tables {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pg_tables WHERE schemaname = current_schema() AND tablename = $1`,
			name).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		log.Printf("postgres: creating table %s", name)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil && !alreadyExists(err) {
			return fmt.Errorf("creating table %s: %w", name, err)
		}
	}
	for name, ddl := range indexes {
		var n int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pg_indexes WHERE schemaname = current_schema() AND indexname = $1`,
			name).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		log.Printf("postgres: creating index %s", name)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil && !alreadyExists(err) {
			return fmt.Errorf("creating index %s: %w", name, err)
		}
	}
	return data.Migrate(ctx, "postgres", s)
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
		INSERT INTO db_version (id, version) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET version = EXCLUDED.version`, version)
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
			UPDATE web_log SET data = jsonb_set(data, '{redirectRules}', '[]'::jsonb)
			WHERE NOT data ? 'redirectRules'`)
		return err
	default:
		return fmt.Errorf("unknown migration step %q", version)
	}
}

func pqCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func alreadyExists(err error) bool {
	// 42P07 duplicate_table; duplicate indexes raise the same code.
	return pqCode(err, "42P07")
}

func isUniqueViolation(err error) bool {
	return pqCode(err, "23505")
}
