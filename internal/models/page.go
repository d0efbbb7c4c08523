package models

import "time"

// MetaItem is one name/value pair of page or post metadata.
type MetaItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Revision is one revision of the text of a page or post.
type Revision struct {
	AsOf time.Time  `json:"asOf"`
	Text MarkupText `json:"text"`
}

// Page is a piece of long-lived content, such as "About", outside the
// chronological post stream. Permalink is unique within the web log;
// PriorPermalinks keeps every permalink the page has ever had, in insertion
// order, so old links can redirect.
type Page struct {
	ID              PageID       `json:"id"`
	WebLogID        WebLogID     `json:"webLogId"`
	AuthorID        WebLogUserID `json:"authorId"`
	Title           string       `json:"title"`
	Permalink       string       `json:"permalink"`
	PriorPermalinks []string     `json:"priorPermalinks"`
	PublishedOn     time.Time    `json:"publishedOn"`
	UpdatedOn       time.Time    `json:"updatedOn"`
	IsInPageList    bool         `json:"isInPageList"`
	Template        *string      `json:"template,omitempty"`
	Text            string       `json:"text"`
	Metadata        []MetaItem   `json:"metadata"`
	Revisions       []Revision   `json:"revisions"`
}
