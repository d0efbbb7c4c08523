package data

import (
	"context"
	"slices"
	"testing"

	"github.com/bit-badger/myweblog/internal/models"
)

func catID(id models.CategoryID) *models.CategoryID { return &id }

// countFromPosts builds a PostCounter over an in-memory post-to-categories
// table, counting each post once per subtree.
func countFromPosts(posts map[string][]models.CategoryID) PostCounter {
	return func(_ context.Context, catIDs []models.CategoryID) (int, error) {
		n := 0
		for _, cats := range posts {
			for _, cat := range cats {
				if slices.Contains(catIDs, cat) {
					n++
					break
				}
			}
		}
		return n, nil
	}
}

func TestBuildHierarchy(t *testing.T) {
	cats := []models.Category{
		{ID: "go", WebLogID: "wl1", Name: "Go", Slug: "go", ParentID: catID("tech")},
		{ID: "tech", WebLogID: "wl1", Name: "Tech", Slug: "tech"},
		{ID: "life", WebLogID: "wl1", Name: "apreski", Slug: "apreski"},
		{ID: "generics", WebLogID: "wl1", Name: "Generics", Slug: "generics", ParentID: catID("go")},
	}
	posts := map[string][]models.CategoryID{
		"p1": {"go"},
		"p2": {"go", "generics"},
		"p3": {"tech"},
		"p4": {"life"},
	}

	view, err := BuildHierarchy(context.Background(), cats, countFromPosts(posts))
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}

	// Depth-first, children in case-insensitive name order; "apreski"
	// sorts ahead of "Tech".
	wantOrder := []models.CategoryID{"life", "tech", "go", "generics"}
	for i, want := range wantOrder {
		if view[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, view[i].ID)
		}
	}

	tests := []struct {
		id          models.CategoryID
		slug        string
		parentNames []string
		postCount   int
	}{
		{"life", "apreski", nil, 1},
		{"tech", "tech", nil, 3},
		{"go", "tech/go", []string{"Tech"}, 2},
		{"generics", "tech/go/generics", []string{"Tech", "Go"}, 1},
	}
	for _, tt := range tests {
		idx := slices.IndexFunc(view, func(c models.DisplayCategory) bool { return c.ID == tt.id })
		if idx < 0 {
			t.Fatalf("category %s missing from view", tt.id)
		}
		got := view[idx]
		if got.Slug != tt.slug {
			t.Errorf("%s: expected slug %q, got %q", tt.id, tt.slug, got.Slug)
		}
		if !slices.Equal(got.ParentNames, tt.parentNames) {
			t.Errorf("%s: expected parents %v, got %v", tt.id, tt.parentNames, got.ParentNames)
		}
		if got.PostCount != tt.postCount {
			t.Errorf("%s: expected %d posts, got %d", tt.id, tt.postCount, got.PostCount)
		}
	}
}

func TestBuildHierarchyCountsMultiCategoryPostOnce(t *testing.T) {
	cats := []models.Category{
		{ID: "tech", Name: "Tech", Slug: "tech"},
		{ID: "go", Name: "Go", Slug: "go", ParentID: catID("tech")},
		{ID: "db", Name: "Databases", Slug: "db", ParentID: catID("tech")},
	}
	// One post carries two categories of the same subtree.
	posts := map[string][]models.CategoryID{"p1": {"go", "db"}}

	view, err := BuildHierarchy(context.Background(), cats, countFromPosts(posts))
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}
	idx := slices.IndexFunc(view, func(c models.DisplayCategory) bool { return c.ID == "tech" })
	if view[idx].PostCount != 1 {
		t.Fatalf("expected the post counted once, got %d", view[idx].PostCount)
	}
}

func TestBuildHierarchyEmpty(t *testing.T) {
	view, err := BuildHierarchy(context.Background(), nil, countFromPosts(nil))
	if err != nil {
		t.Fatalf("BuildHierarchy: %v", err)
	}
	if len(view) != 0 {
		t.Fatalf("expected an empty view, got %d entries", len(view))
	}
}
