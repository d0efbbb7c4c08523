package postgresdata

import (
	"context"
	"database/sql"
)

// findDoc runs a query selecting a single jsonb column and returns the
// decoded document, or nil when no row matches.
func findDoc[T any](ctx context.Context, s *Store, query string, args ...any) (*T, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc T
	if err := s.ser.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// findDocs runs a query selecting a single jsonb column and returns every
// decoded document in query order.
func findDocs[T any](ctx context.Context, s *Store, query string, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc T
		if err := s.ser.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// count runs a query selecting a single COUNT value.
func count(ctx context.Context, s *Store, query string, args ...any) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
