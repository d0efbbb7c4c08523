package models

import "github.com/google/uuid"

// Entity identifiers are opaque strings so that backends can store them
// natively (document key, jsonb field, or text column) without conversion.
type (
	// WebLogID identifies one web log (tenant).
	WebLogID string
	// CategoryID identifies a category within a web log.
	CategoryID string
	// PageID identifies a page within a web log.
	PageID string
	// PostID identifies a post within a web log.
	PostID string
	// CommentID identifies a comment on a post.
	CommentID string
	// TagMapID identifies a tag-to-URL mapping within a web log.
	TagMapID string
	// WebLogUserID identifies a user of a web log.
	WebLogUserID string
	// UploadID identifies an uploaded file within a web log.
	UploadID string
	// ThemeID identifies a theme; it doubles as the theme's directory name.
	ThemeID string
)

func newID() string { return uuid.NewString() }

// NewWebLogID returns a fresh web log identifier.
func NewWebLogID() WebLogID { return WebLogID(newID()) }

// NewCategoryID returns a fresh category identifier.
func NewCategoryID() CategoryID { return CategoryID(newID()) }

// NewPageID returns a fresh page identifier.
func NewPageID() PageID { return PageID(newID()) }

// NewPostID returns a fresh post identifier.
func NewPostID() PostID { return PostID(newID()) }

// NewCommentID returns a fresh comment identifier.
func NewCommentID() CommentID { return CommentID(newID()) }

// NewTagMapID returns a fresh tag mapping identifier.
func NewTagMapID() TagMapID { return TagMapID(newID()) }

// NewWebLogUserID returns a fresh user identifier.
func NewWebLogUserID() WebLogUserID { return WebLogUserID(newID()) }

// NewUploadID returns a fresh upload identifier.
func NewUploadID() UploadID { return UploadID(newID()) }

// ThemeAssetID is the composite key for a theme asset: the owning theme and
// the asset's relative path, joined by a slash in its string form.
type ThemeAssetID struct {
	ThemeID ThemeID
	Path    string
}

func (id ThemeAssetID) String() string {
	return string(id.ThemeID) + "/" + id.Path
}
