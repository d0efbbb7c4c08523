package data

import (
	"context"
	"fmt"
	"log"
	"slices"
)

// CurrentVersion is the data version this build writes once all migrations
// have been applied.
const CurrentVersion = "v2.1.1"

// Versions lists every data version in application order. A store with no
// version marker predates versioning and gets every step.
var Versions = []string{"v2", "v2.1", "v2.1.1"}

// VersionStore is what the migration runner needs from a backend: the
// persisted single-row version marker plus one forward transform per step.
type VersionStore interface {
	// GetVersion reads the stored version marker; "" when none exists.
	GetVersion(ctx context.Context) (string, error)
	// SetVersion writes the version marker, replacing any prior value.
	SetVersion(ctx context.Context, version string) error
	// MigrateStep applies the forward transform for one version.
	MigrateStep(ctx context.Context, version string) error
}

// Migrate brings a backend's data up to CurrentVersion. The marker is
// re-read before each step and rewritten immediately after it, so a step is
// never applied twice and an interrupted run resumes where it stopped. A
// marker this build does not recognize means the data is ahead of the code;
// that surfaces as ErrMigrationRequired rather than a crash-loop.
func Migrate(ctx context.Context, backend string, store VersionStore) error {
	for {
		version, err := store.GetVersion(ctx)
		if err != nil {
			return fmt.Errorf("%s: reading data version: %w", backend, err)
		}
		if version == CurrentVersion {
			return nil
		}
		next := Versions[0]
		if version != "" {
			idx := slices.Index(Versions, version)
			if idx < 0 {
				return fmt.Errorf("%s: stored data version %q is not one this build can migrate: %w",
					backend, version, ErrMigrationRequired)
			}
			next = Versions[idx+1]
		}
		log.Printf("%s: migrating data to %s", backend, next)
		if err := store.MigrateStep(ctx, next); err != nil {
			return fmt.Errorf("%s: migrating to %s: %w", backend, next, err)
		}
		if err := store.SetVersion(ctx, next); err != nil {
			return fmt.Errorf("%s: recording version %s: %w", backend, next, err)
		}
	}
}
