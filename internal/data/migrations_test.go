package data

import (
	"context"
	"errors"
	"testing"
)

// fakeVersionStore records which steps ran against an in-memory marker.
type fakeVersionStore struct {
	version string
	steps   []string
	stepErr error
}

func (f *fakeVersionStore) GetVersion(context.Context) (string, error) { return f.version, nil }
func (f *fakeVersionStore) SetVersion(_ context.Context, v string) error {
	f.version = v
	return nil
}
func (f *fakeVersionStore) MigrateStep(_ context.Context, v string) error {
	if f.stepErr != nil {
		return f.stepErr
	}
	f.steps = append(f.steps, v)
	return nil
}

func TestMigrateFromScratch(t *testing.T) {
	store := &fakeVersionStore{}
	if err := Migrate(context.Background(), "test", store); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if store.version != CurrentVersion {
		t.Fatalf("expected marker %s, got %s", CurrentVersion, store.version)
	}
	want := []string{"v2", "v2.1", "v2.1.1"}
	if len(store.steps) != len(want) {
		t.Fatalf("expected steps %v, got %v", want, store.steps)
	}
	for i, step := range want {
		if store.steps[i] != step {
			t.Fatalf("expected steps %v, got %v", want, store.steps)
		}
	}
}

func TestMigrateResumesFromStoredVersion(t *testing.T) {
	store := &fakeVersionStore{version: "v2"}
	if err := Migrate(context.Background(), "test", store); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	want := []string{"v2.1", "v2.1.1"}
	if len(store.steps) != len(want) || store.steps[0] != want[0] || store.steps[1] != want[1] {
		t.Fatalf("expected steps %v, got %v", want, store.steps)
	}
}

func TestMigrateCurrentIsNoOp(t *testing.T) {
	store := &fakeVersionStore{version: CurrentVersion}
	if err := Migrate(context.Background(), "test", store); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(store.steps) != 0 {
		t.Fatalf("expected no steps, got %v", store.steps)
	}
}

func TestMigrateUnknownVersion(t *testing.T) {
	store := &fakeVersionStore{version: "v9.9"}
	err := Migrate(context.Background(), "test", store)
	if !errors.Is(err, ErrMigrationRequired) {
		t.Fatalf("expected ErrMigrationRequired, got %v", err)
	}
	if store.version != "v9.9" {
		t.Fatalf("marker changed to %s", store.version)
	}
}

func TestMigrateStepFailureKeepsMarker(t *testing.T) {
	boom := errors.New("boom")
	store := &fakeVersionStore{version: "v2", stepErr: boom}
	err := Migrate(context.Background(), "test", store)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the step error, got %v", err)
	}
	if store.version != "v2" {
		t.Fatalf("expected marker unchanged at v2, got %s", store.version)
	}
}
