package models

// Category classifies posts within a web log. ParentID, when set, references
// another category of the same web log; the set of categories forms a forest.
type Category struct {
	ID          CategoryID  `json:"id"`
	WebLogID    WebLogID    `json:"webLogId"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description *string     `json:"description,omitempty"`
	ParentID    *CategoryID `json:"parentId,omitempty"`
}

// DisplayCategory is one row of the read-time hierarchy view: a category with
// its ancestry and the number of distinct published posts in its subtree.
type DisplayCategory struct {
	ID CategoryID `json:"id"`
	// Slug is the full slug: every ancestor's slug and this category's own,
	// joined by "/".
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	ParentNames []string `json:"parentNames"`
	PostCount   int      `json:"postCount"`
}
