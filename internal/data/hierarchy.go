package data

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/bit-badger/myweblog/internal/models"
)

// PostCounter counts the distinct published posts carrying any of the given
// category ids. Each backend supplies one over its own query model.
type PostCounter func(ctx context.Context, catIDs []models.CategoryID) (int, error)

// BuildHierarchy turns a flat category list into the ordered hierarchy view.
// The traversal is depth-first from the root categories, visiting children in
// case-insensitively name-sorted order, so identical input always yields the
// same sequence. Each entry's slug is the "/"-joined slugs from the root down,
// and its post count covers the whole subtree, counting a post once even when
// it carries several categories from that subtree.
func BuildHierarchy(ctx context.Context, cats []models.Category, count PostCounter) ([]models.DisplayCategory, error) {
	children := make(map[models.CategoryID][]models.Category)
	var roots []models.Category
	for _, cat := range cats {
		if cat.ParentID == nil {
			roots = append(roots, cat)
		} else {
			children[*cat.ParentID] = append(children[*cat.ParentID], cat)
		}
	}
	byName := func(cs []models.Category) {
		sort.SliceStable(cs, func(i, j int) bool {
			return strings.ToLower(cs[i].Name) < strings.ToLower(cs[j].Name)
		})
	}
	byName(roots)
	for _, cs := range children {
		byName(cs)
	}

	ordered := make([]models.DisplayCategory, 0, len(cats))
	var visit func(cat models.Category, slugs, names []string)
	visit = func(cat models.Category, slugs, names []string) {
		fullSlug := strings.Join(append(slices.Clone(slugs), cat.Slug), "/")
		ordered = append(ordered, models.DisplayCategory{
			ID:          cat.ID,
			Slug:        fullSlug,
			Name:        cat.Name,
			Description: cat.Description,
			ParentNames: slices.Clone(names),
		})
		for _, child := range children[cat.ID] {
			visit(child, append(slices.Clone(slugs), cat.Slug), append(slices.Clone(names), cat.Name))
		}
	}
	for _, root := range roots {
		visit(root, nil, nil)
	}

	// Second pass: a category's count covers itself plus every category
	// listing it among its ancestors.
	for i := range ordered {
		subtree := []models.CategoryID{ordered[i].ID}
		for j := range ordered {
			if j != i && slices.Contains(ordered[j].ParentNames, ordered[i].Name) {
				subtree = append(subtree, ordered[j].ID)
			}
		}
		nbr, err := count(ctx, subtree)
		if err != nil {
			return nil, err
		}
		ordered[i].PostCount = nbr
	}
	return ordered, nil
}
