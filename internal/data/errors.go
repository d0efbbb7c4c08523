// Package data defines the storage contract for myWebLog: the per-entity
// data ports every backend implements, the facade the web layer depends on,
// and the algorithms (category hierarchy, permalink history, restore
// batching) that are shared across backends.
package data

import "errors"

var (
	// ErrNotFound is returned by mutations whose target id is absent or
	// belongs to a different web log. Reads return a nil result instead.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert or update would violate a
	// uniqueness constraint (permalink, tag mapping, e-mail, URL base).
	ErrConflict = errors.New("value conflicts with an existing entity")

	// ErrReferenced is returned when a delete is refused because other
	// content still references the entity, such as a user who has
	// authored pages or posts.
	ErrReferenced = errors.New("entity is referenced by other content")

	// ErrMigrationRequired is returned by StartUp when the stored data
	// version is one this build does not know how to reach; the instance
	// must not serve traffic until an operator intervenes.
	ErrMigrationRequired = errors.New("manual data migration required")
)
